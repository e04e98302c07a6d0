// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/service"
)

// Client-facing messages.
const (
	msgUnitUnresolved   = "Unidade não identificada"
	msgUnitNotInDB      = "Unidade não encontrada no banco de dados"
	msgUnitNotFound     = "Unidade não encontrada"
	msgInvalidJSON      = "JSON inválido"
	msgInvalidForm      = "Formulário inválido"
	msgPayloadTooLarge  = "Documento excede o tamanho máximo"
	msgUnsupportedMedia = "Tipo de conteúdo não suportado"
	msgShuttingDown     = "Serviço em desligamento"
	msgDocument         = "Falha ao processar o documento"
	msgSnapshot         = "Falha ao gravar o arquivo de dados atualizados"
	msgMethodNotAllowed = "Método não permitido"
	msgRouteNotFound    = "Rota não encontrada"
	msgInternal         = "Erro interno"
)

// jsonError represents a JSON error payload. Tipo carries the machine-readable
// error kind and is omitted for the plain lookup failures.
type jsonError struct {
	Erro     string `json:"erro"`
	Tipo     string `json:"tipo,omitempty"`
	Detalhes string `json:"detalhes,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message string, kind apperr.Kind, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Erro: message, Tipo: string(kind), Detalhes: details})
}

// writeUpdateError maps an update failure to a response. Document problems
// are the client's fault only when the client sent the document.
func writeUpdateError(w http.ResponseWriter, err error, uploaded bool) {
	if service.IsUnresolved(err) {
		WriteJSONError(w, http.StatusBadRequest, msgUnitUnresolved, "", "")
		return
	}
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindNotFound:
		WriteJSONError(w, http.StatusNotFound, msgUnitNotInDB, "", "")
	case apperr.KindParse:
		status := http.StatusInternalServerError
		if uploaded {
			status = http.StatusUnprocessableEntity
		}
		WriteJSONError(w, status, msgDocument, kind, err.Error())
	case apperr.KindIO:
		var ae *apperr.Error
		if errors.As(err, &ae) && strings.HasPrefix(ae.Op, "snapshot.") {
			WriteJSONError(w, http.StatusInternalServerError, msgSnapshot, kind, err.Error())
			return
		}
		status := http.StatusInternalServerError
		if uploaded {
			status = http.StatusBadRequest
		}
		WriteJSONError(w, status, msgDocument, kind, err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, msgInternal, apperr.KindInternal, err.Error())
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, http.StatusNotFound, msgRouteNotFound, apperr.KindNotFound, r.URL.Path)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, apperr.KindInvalidInput, r.Method)
}
