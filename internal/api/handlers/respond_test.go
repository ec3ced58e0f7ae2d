package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind string
	}{
		{domain.ErrDurationOutOfBounds, http.StatusBadRequest, "validation"},
		{fmt.Errorf("%w: session", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, "business_rule"},
		{domain.ErrSlotConflict, http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.wantKind, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.Equal(t, tt.err.Error(), body.Details)
		})
	}

	rec := httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "ok", dst.Title)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))
}
