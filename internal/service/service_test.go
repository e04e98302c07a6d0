package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
	"github.com/fairyhunter13/unit-update-service/internal/obs"
	"github.com/fairyhunter13/unit-update-service/internal/resolver"
	"github.com/fairyhunter13/unit-update-service/internal/seed"
	"github.com/fairyhunter13/unit-update-service/internal/snapshot"
	"github.com/fairyhunter13/unit-update-service/internal/store"
	"github.com/fairyhunter13/unit-update-service/internal/testutil"
)

type fixture struct {
	svc    *Service
	st     *store.Store
	outDir string
	docDir string
}

func setup(t *testing.T, paragraphs ...string) fixture {
	t.Helper()
	obs.InitLogger()
	docDir := t.TempDir()
	outDir := t.TempDir()
	docPath := testutil.WriteDocx(t, docDir, "doc.docx", paragraphs...)
	st := store.New(seed.Default())
	svc := New(st, resolver.New("Ilhéus", "Pituba"), snapshot.NewWriter(outDir), docPath)
	return fixture{svc: svc, st: st, outDir: outDir, docDir: docDir}
}

func TestUpdateFromConfiguredDocument(t *testing.T) {
	f := setup(t, "Contato: novo@exemplo.com", "Valor: 2000", "Desconto: 20", "Links: a.com,b.com")

	res, err := f.svc.Update(context.Background(), Request{Text: "Fale sobre Ilhéus"})
	require.NoError(t, err)

	want := model.Record{Contato: "novo@exemplo.com", Valor: 2000, Desconto: 20, Links: []string{"a.com", "b.com"}}
	assert.Equal(t, "Ilhéus", res.Unit)
	assert.Equal(t, want, res.Record)
	assert.Equal(t, []string{"contato", "valor", "desconto", "links"}, res.Fields)
	assert.Equal(t, uint64(1), res.Revision)

	got, ok := f.st.Get("Ilhéus")
	require.True(t, ok)
	assert.Equal(t, want, got)

	onDisk, err := os.ReadFile(filepath.Join(f.outDir, "Ilhéus_dados_atualizados.json"))
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot.Data, onDisk)
	var back model.Record
	require.NoError(t, json.Unmarshal(onDisk, &back))
	assert.Equal(t, got, back)
}

func TestUpdatePartialMerge(t *testing.T) {
	f := setup(t, "Valor: 500")

	res, err := f.svc.Update(context.Background(), Request{Text: "Pituba"})
	require.NoError(t, err)
	assert.Equal(t, model.Record{Contato: "contato@pituba.com", Valor: 500, Desconto: 15, Links: []string{"www.pituba.com"}}, res.Record)
	assert.Equal(t, []string{"valor"}, res.Fields)
}

func TestUpdateUploadedDocumentWins(t *testing.T) {
	f := setup(t, "Valor: 1")
	data := testutil.Docx(t, "Desconto: 33")

	res, err := f.svc.Update(context.Background(), Request{Text: "Pituba", Document: Document{Name: "x.docx", Data: data}})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, res.Record.Valor)
	assert.Equal(t, 33.0, res.Record.Desconto)
}

func TestUpdateUnresolved(t *testing.T) {
	f := setup(t, "Valor: 1")

	_, err := f.svc.Update(context.Background(), Request{Text: "texto sem cidade"})
	require.Error(t, err)
	assert.True(t, IsUnresolved(err))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestUpdateUnknownUnitInRegistry(t *testing.T) {
	obs.InitLogger()
	docPath := testutil.WriteDocx(t, t.TempDir(), "doc.docx", "Valor: 1")
	st := store.New(seed.Default())
	svc := New(st, resolver.New("Barra", "Pituba"), snapshot.NewWriter(t.TempDir()), docPath)

	_, err := svc.Update(context.Background(), Request{Text: "Barra"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, 2, st.Len())
}

func TestUpdateParseErrorLeavesRegistry(t *testing.T) {
	f := setup(t, "Valor: mil")

	_, err := f.svc.Update(context.Background(), Request{Text: "Ilhéus"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindParse, apperr.KindOf(err))
	got, _ := f.st.Get("Ilhéus")
	assert.Equal(t, 1000.0, got.Valor)
	_, statErr := os.Stat(filepath.Join(f.outDir, "Ilhéus_dados_atualizados.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateMissingDocument(t *testing.T) {
	obs.InitLogger()
	st := store.New(seed.Default())
	svc := New(st, resolver.New("Ilhéus"), snapshot.NewWriter(t.TempDir()), filepath.Join(t.TempDir(), "absent.docx"))

	_, err := svc.Update(context.Background(), Request{Text: "Ilhéus"})
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))
}

func TestUpdateSnapshotFailureLeavesRegistry(t *testing.T) {
	obs.InitLogger()
	docPath := testutil.WriteDocx(t, t.TempDir(), "doc.docx", "Valor: 7")
	st := store.New(seed.Default())
	svc := New(st, resolver.New("Ilhéus"), snapshot.NewWriter(filepath.Join(t.TempDir(), "absent")), docPath)

	_, err := svc.Update(context.Background(), Request{Text: "Ilhéus"})
	assert.Equal(t, apperr.KindIO, apperr.KindOf(err))
	got, _ := st.Get("Ilhéus")
	assert.Equal(t, 1000.0, got.Valor)
}

func TestUpdateLastMatchWins(t *testing.T) {
	f := setup(t, "Valor: 100", "Valor: 250")

	res, err := f.svc.Update(context.Background(), Request{Text: "Ilhéus"})
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.Record.Valor)
}

func TestUpdateCanceledContext(t *testing.T) {
	f := setup(t, "Valor: 100")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Update(ctx, Request{Text: "Ilhéus"})
	require.ErrorIs(t, err, context.Canceled)
	got, _ := f.st.Get("Ilhéus")
	assert.Equal(t, 1000.0, got.Valor)
}
