package expense

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func TestHandlerExpenseLifecycle(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc).Routes()

	rr, env := do(t, h, http.MethodPost, "/", `{"group_id":"`+tripID+`","description":"Groceries","amount":60,"payer_id":"A","split_type":"EQUAL"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ExpenseResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 60.0, created.Amount)
	require.Len(t, created.Shares, 3)
	require.Equal(t, 20.0, created.Shares[1].AmountOwed)

	rr, env = do(t, h, http.MethodGet, "/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched ExpenseResponse
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	require.Equal(t, "Groceries", fetched.Description)

	rr, env = do(t, h, http.MethodGet, "/group/"+tripID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []ExpenseResponse
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)

	rr, _ = do(t, h, http.MethodDelete, "/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env = do(t, h, http.MethodGet, "/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHandlerValidationCodes(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc).Routes()

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "exact mismatch",
			body:   `{"group_id":"` + tripID + `","description":"x","amount":"100","payer_id":"A","split_type":"EXACT","participants":[{"member_id":"A","value":"30"},{"member_id":"B","value":30},{"member_id":"C","value":"41"}]}`,
			status: http.StatusBadRequest,
			code:   "SPLIT_MISMATCH",
		},
		{
			name:   "unknown policy",
			body:   `{"group_id":"` + tripID + `","description":"x","amount":"10","payer_id":"A","split_type":"SHARES"}`,
			status: http.StatusBadRequest,
			code:   "UNKNOWN_POLICY",
		},
		{
			name:   "bad amount",
			body:   `{"group_id":"` + tripID + `","description":"x","amount":"-3","payer_id":"A","split_type":"EQUAL"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_AMOUNT",
		},
		{
			name:   "payer outside group",
			body:   `{"group_id":"` + tripID + `","description":"x","amount":"10","payer_id":"Z","split_type":"EQUAL"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_PAYER",
		},
		{
			name:   "unknown group",
			body:   `{"group_id":"` + uuid.NewString() + `","description":"x","amount":"10","payer_id":"A","split_type":"EQUAL"}`,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "malformed group id",
			body:   `{"group_id":"trip","description":"x","amount":"10","payer_id":"A","split_type":"EQUAL"}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, env := do(t, h, http.MethodPost, "/", tc.body)
			require.Equal(t, tc.status, rr.Code)
			require.False(t, env.Success)
			require.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestHandlerPreview(t *testing.T) {
	t.Parallel()

	svc, store, _, _ := newTestService(t)
	h := NewHandler(svc).Routes()

	rr, env := do(t, h, http.MethodPost, "/preview", `{"group_id":"`+tripID+`","amount":"1000","payer_id":"A","split_type":"PERCENTAGE","participants":[{"member_id":"A","value":50},{"member_id":"B","value":30},{"member_id":"C","value":20}]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var preview PreviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	require.Equal(t, 1000.0, preview.TotalOwed)
	require.Equal(t, 300.0, preview.Shares[1].AmountOwed)
	require.Empty(t, store.expenses)
}
