package settlement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/internal/expense"
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

func TestHandlerBalancesAndPlan(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "A", "B", "C")
	f.addExpense(t, &expense.CreateExpenseRequest{Amount: "90", PayerID: "C", SplitType: "EQUAL"})
	h := NewHandler(f.settlements).Routes()

	rr, env := do(t, h, http.MethodGet, "/group/"+tripID+"/balances", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var balances []BalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balances))
	require.Equal(t, []BalanceResponse{
		{MemberID: "A", Amount: -30},
		{MemberID: "B", Amount: -30},
		{MemberID: "C", Amount: 60},
	}, balances)

	rr, env = do(t, h, http.MethodGet, "/group/"+tripID+"/plan", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var plan PlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	require.False(t, plan.Settled)
	require.Len(t, plan.Transfers, 2)
	require.Equal(t, TransferResponse{From: "A", To: "C", Amount: 30}, *plan.Transfers[0])

	for _, tr := range plan.Transfers {
		rr, _ = do(t, h, http.MethodPost, "/", `{"group_id":"`+tripID+`","from_member_id":"`+tr.From+`","to_member_id":"`+tr.To+`","amount":30}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr, env = do(t, h, http.MethodGet, "/group/"+tripID+"/plan", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	require.True(t, plan.Settled)
	require.Empty(t, plan.Transfers)
}

func TestHandlerSettlementErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "A", "B")
	h := NewHandler(f.settlements).Routes()

	rr, env := do(t, h, http.MethodPost, "/", `{"group_id":"`+tripID+`","from_member_id":"A","to_member_id":"A","amount":"5"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "BAD_REQUEST", env.Error.Code)

	rr, env = do(t, h, http.MethodPost, "/", `{"group_id":"`+tripID+`","from_member_id":"A","to_member_id":"B","amount":"-5"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "INVALID_AMOUNT", env.Error.Code)

	rr, _ = do(t, h, http.MethodGet, "/group/"+uuid.NewString()+"/plan", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/group/nope/balances", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
