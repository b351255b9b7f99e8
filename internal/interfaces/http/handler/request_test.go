package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
)

func TestRequestLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	dept := app.createDepartment(t, "D1", "Engineering")
	category := app.createCategory(t, "Travel")
	_, userToken := app.createUser(t, "rin@example.com", identity.RoleUser, &dept.ID)
	_, managerToken := app.createUser(t, "aoi@example.com", identity.RoleManager, nil)

	var created RequestResponse

	t.Run("create submitted expense inherits home department", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
			"amount":         "5000",
			"description":    "Client visit train fare",
			"category_id":    category.ID.String(),
			"expense_date":   "2026-05-10",
			"payment_method": "cash",
			"submit":         true,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		decodeData(t, w, &created)
		assert.Equal(t, "pending", created.Status)
		assert.Equal(t, "expense", created.Type)
		require.NotNil(t, created.DepartmentID)
		assert.Equal(t, dept.ID.String(), *created.DepartmentID)
	})

	t.Run("paying a pending request is an invalid transition", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/transitions", managerToken, map[string]any{
			"action": "pay",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))
	})

	t.Run("plain user cannot approve", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/transitions", userToken, map[string]any{
			"action": "approve",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})

	t.Run("manager approves", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/transitions", managerToken, map[string]any{
			"action": "approve",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp RequestResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "approved", resp.Status)
	})

	t.Run("editing after approval fails with immutable state", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPut, "/api/v1/requests/"+created.ID, userToken, map[string]any{
			"amount":      "6000",
			"description": "Adjusted fare",
			"category_id": category.ID.String(),
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "IMMUTABLE_STATE", errorCode(t, w))
	})

	t.Run("deleting after approval fails with immutable state", func(t *testing.T) {
		w := app.doJSON(t, http.MethodDelete, "/api/v1/requests/"+created.ID, userToken, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "IMMUTABLE_STATE", errorCode(t, w))
	})

	t.Run("manager cannot mark paid, accountant can", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/transitions", managerToken, map[string]any{
			"action": "pay",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)

		_, accountantToken := app.createUser(t, "kanade@example.com", identity.RoleAccountant, nil)
		w = app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/transitions", accountantToken, map[string]any{
			"action": "pay",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp RequestResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "paid", resp.Status)
	})
}

func TestPendingRequestEditAndDelete(t *testing.T) {
	app := newTestApp(t)
	category := app.createCategory(t, "Supplies")
	_, userToken := app.createUser(t, "owner@example.com", identity.RoleUser, nil)
	_, otherToken := app.createUser(t, "other@example.com", identity.RoleUser, nil)

	var created RequestResponse
	w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
		"amount":         "1200",
		"description":    "Notebooks",
		"category_id":    category.ID.String(),
		"expense_date":   "2026-05-12",
		"payment_method": "credit_card",
		"submit":         true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &created)

	t.Run("owner edits pending content", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPut, "/api/v1/requests/"+created.ID, userToken, map[string]any{
			"amount":      "1500",
			"description": "Notebooks and pens",
			"category_id": category.ID.String(),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp RequestResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "1500", resp.Amount)
		assert.Equal(t, "Notebooks and pens", resp.Description)
	})

	t.Run("non-owner cannot edit", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPut, "/api/v1/requests/"+created.ID, otherToken, map[string]any{
			"amount":      "1",
			"description": "hijack",
			"category_id": category.ID.String(),
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		w := app.doJSON(t, http.MethodDelete, "/api/v1/requests/"+created.ID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner deletes pending request", func(t *testing.T) {
		w := app.doJSON(t, http.MethodDelete, "/api/v1/requests/"+created.ID, userToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = app.doJSON(t, http.MethodGet, "/api/v1/requests/"+created.ID, userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCombinedFeedOverHTTP(t *testing.T) {
	app := newTestApp(t)
	category := app.createCategory(t, "Misc")
	_, userToken := app.createUser(t, "feed@example.com", identity.RoleUser, nil)

	w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
		"amount":         "300",
		"description":    "Taxi",
		"category_id":    category.ID.String(),
		"expense_date":   "2026-05-01",
		"payment_method": "cash",
		"submit":         true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.doJSON(t, http.MethodPost, "/api/v1/requests/invoices", userToken, map[string]any{
		"amount":       "88000",
		"description":  "Venue rental",
		"category_id":  category.ID.String(),
		"invoice_date": "2026-05-02",
		"due_date":     "2026-06-01",
		"vendor_name":  "Hall Co.",
		"submit":       true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("feed merges both kinds", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []map[string]any
		decodeData(t, w, &entries)
		require.Len(t, entries, 2)

		kinds := []string{entries[0]["type"].(string), entries[1]["type"].(string)}
		assert.Contains(t, kinds, "expense")
		assert.Contains(t, kinds, "invoice")
	})

	t.Run("invoice entries display the invoice payment method", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests?type=invoice", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []map[string]any
		decodeData(t, w, &entries)
		require.Len(t, entries, 1)
		assert.Equal(t, "invoice", entries[0]["payment_method"])
	})

	t.Run("status filter narrows the feed", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests?status=paid", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []map[string]any
		decodeData(t, w, &entries)
		assert.Empty(t, entries)
	})

	t.Run("summary aggregates in one pass", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests/summary", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary map[string]any
		decodeData(t, w, &summary)
		assert.Equal(t, float64(2), summary["pending"])
	})

	t.Run("feed pages after the merge", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests?page_size=1", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Data []map[string]any `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				TotalPages int   `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 1)
		assert.Equal(t, int64(2), envelope.Meta.Total)
		assert.Equal(t, 2, envelope.Meta.TotalPages)
	})

	t.Run("bad query parameter is rejected", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests?status=bogus", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = app.doJSON(t, http.MethodGet, "/api/v1/requests?page_size=0", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReceiptSyncOverHTTP(t *testing.T) {
	app := newTestApp(t)
	category := app.createCategory(t, "Travel")
	_, userToken := app.createUser(t, "receipt@example.com", identity.RoleUser, nil)

	var created RequestResponse
	w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
		"amount":         "420",
		"description":    "Parking",
		"category_id":    category.ID.String(),
		"expense_date":   "2026-05-03",
		"payment_method": "cash",
		"submit":         true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &created)

	t.Run("upload stores receipt and records reference", func(t *testing.T) {
		w := app.doMultipart(t, "/api/v1/requests/"+created.ID+"/receipt", userToken,
			"file", "receipt.jpg", "image/jpeg", []byte("jpeg-bytes"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result map[string]string
		decodeData(t, w, &result)
		assert.Contains(t, result["storage_key"], "receipts/expense/")
		assert.NotEmpty(t, result["view_url"])

		exists, err := app.storage.Exists(context.Background(), result["storage_key"])
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("second upload without reupload reuses the reference", func(t *testing.T) {
		w := app.doMultipart(t, "/api/v1/requests/"+created.ID+"/receipt", userToken,
			"file", "receipt.jpg", "image/jpeg", []byte("different-bytes"))
		require.Equal(t, http.StatusOK, w.Code)

		var result map[string]string
		decodeData(t, w, &result)
		data, ok := app.storage.Get(result["storage_key"])
		require.True(t, ok)
		assert.Equal(t, []byte("jpeg-bytes"), data)
	})

	t.Run("reupload replaces the stored object", func(t *testing.T) {
		w := app.doMultipart(t, "/api/v1/requests/"+created.ID+"/receipt?reupload=1", userToken,
			"file", "receipt.jpg", "image/jpeg", []byte("replacement"))
		require.Equal(t, http.StatusOK, w.Code)

		var result map[string]string
		decodeData(t, w, &result)
		data, ok := app.storage.Get(result["storage_key"])
		require.True(t, ok)
		assert.Equal(t, []byte("replacement"), data)
	})

	t.Run("unsupported content type is rejected", func(t *testing.T) {
		w := app.doMultipart(t, "/api/v1/requests/"+created.ID+"/receipt", userToken,
			"file", "receipt.svg", "image/svg+xml", []byte("<svg/>"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_IMAGE", errorCode(t, w))
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+created.ID+"/receipt", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequestValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)
	category := app.createCategory(t, "Misc")
	_, userToken := app.createUser(t, "val@example.com", identity.RoleUser, nil)

	t.Run("negative amount is rejected", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
			"amount":         "-10",
			"description":    "bad",
			"category_id":    category.ID.String(),
			"expense_date":   "2026-05-01",
			"payment_method": "cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/expenses", userToken, map[string]any{
			"amount":         "10",
			"description":    "ok",
			"category_id":    category.ID.String(),
			"expense_date":   "05/01/2026",
			"payment_method": "cash",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown action is rejected by binding", func(t *testing.T) {
		w := app.doJSON(t, http.MethodPost, "/api/v1/requests/"+uuidString()+"/transitions", userToken, map[string]any{
			"action": "archive",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		w := app.doJSON(t, http.MethodGet, "/api/v1/requests", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
