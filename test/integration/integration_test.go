//go:build integration

// Black-box tests against a running service. Start the server, then:
//
//	BASE_URL=http://localhost:8080 go test -tags integration ./test/integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fairyhunter13/unit-update-service/internal/testutil"
)

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func waitReady(t testing.TB) {
	t.Helper()
	target := fmt.Sprintf("%s/healthz", baseURL())
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(target)
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

type record struct {
	Contato  string   `json:"contato"`
	Valor    float64  `json:"valor"`
	Desconto float64  `json:"desconto"`
	Links    []string `json:"links"`
}

func uploadRequest(t testing.TB, unidade string, paragraphs ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("unidade", unidade); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("documento", "atualizacao.docx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(testutil.Docx(t, paragraphs...)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := http.NewRequest(http.MethodPost, baseURL()+"/atualizar", &buf)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func upload(t testing.TB, client *http.Client, unidade string, paragraphs ...string) *http.Response {
	t.Helper()
	resp, err := client.Do(uploadRequest(t, unidade, paragraphs...))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func getRecord(t testing.TB, unidade string) record {
	t.Helper()
	resp, err := http.Get(baseURL() + "/informacoes?unidade=" + url.QueryEscape(unidade))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var rec record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestIntegration_OpenAPIServed(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/openapi.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_DocsServed(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/swagger")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	buf := make([]byte, 1024)
	n, _ := resp.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs page")
	}
}

func TestIntegration_UploadThenRead(t *testing.T) {
	waitReady(t)
	before := getRecord(t, "Pituba")

	resp := upload(t, http.DefaultClient, "Atualizar Pituba", "Desconto: 25", "Links: p1.com,p2.com")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("expected attachment, got %q", cd)
	}
	var fromFile record
	if err := json.NewDecoder(resp.Body).Decode(&fromFile); err != nil {
		t.Fatal(err)
	}

	after := getRecord(t, "Pituba")
	if after.Desconto != 25 || len(after.Links) != 2 || after.Links[1] != "p2.com" {
		t.Fatalf("unexpected record: %+v", after)
	}
	if after.Contato != before.Contato || after.Valor != before.Valor {
		t.Fatalf("untouched fields changed: before %+v after %+v", before, after)
	}
	if fmt.Sprint(fromFile) != fmt.Sprint(after) {
		t.Fatalf("file %+v differs from registry %+v", fromFile, after)
	}
}

func TestIntegration_UnknownUnit(t *testing.T) {
	waitReady(t)
	resp, err := http.Get(baseURL() + "/informacoes?unidade=Unknown")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
