package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paykit/go-money/currency"
	"github.com/paykit/go-money/ledger"
	"github.com/paykit/go-money/money"
)

func (a *API) health(w http.ResponseWriter, _ *http.Request) error {
	return SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type addAmountsRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type amountResponse struct {
	Amount    money.Money `json:"amount"`
	Formatted string      `json:"formatted"`
}

func (a *API) addAmounts(w http.ResponseWriter, r *http.Request) error {
	var req addAmountsRequest

	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	operandA, err := money.Parse(req.A)
	if err != nil {
		return err
	}

	operandB, err := money.Parse(req.B)
	if err != nil {
		return err
	}

	sum := operandA.Add(operandB)

	return SendJSON(w, http.StatusOK, amountResponse{
		Amount:    sum,
		Formatted: a.defaultCurrency.Format(sum),
	})
}

type formatAmountRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (a *API) formatAmount(w http.ResponseWriter, r *http.Request) error {
	var req formatAmountRequest

	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	m, err := money.Parse(req.Amount)
	if err != nil {
		return err
	}

	code := a.defaultCurrency

	if req.Currency != "" {
		code, err = currency.Parse(req.Currency)
		if err != nil {
			return BadRequestError("%s", err.Error()).WithInternalError(err)
		}
	}

	return SendJSON(w, http.StatusOK, amountResponse{
		Amount:    m,
		Formatted: code.Format(m),
	})
}

type createAccountRequest struct {
	Owner    string `json:"owner"`
	Currency string `json:"currency"`
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) error {
	var req createAccountRequest

	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	account, err := a.ledger.CreateAccount(
		req.Owner,
		currency.Currency(req.Currency),
	)
	if err != nil {
		return err
	}

	return SendJSON(w, http.StatusCreated, account)
}

func (a *API) getAccount(w http.ResponseWriter, r *http.Request) error {
	id, err := accountID(r)
	if err != nil {
		return err
	}

	account, err := a.ledger.Account(id)
	if err != nil {
		return err
	}

	return SendJSON(w, http.StatusOK, account)
}

func (a *API) listEntries(w http.ResponseWriter, r *http.Request) error {
	id, err := accountID(r)
	if err != nil {
		return err
	}

	entries, err := a.ledger.Entries(id)
	if err != nil {
		return err
	}

	if entries == nil {
		entries = []ledger.Entry{}
	}

	return SendJSON(w, http.StatusOK, entries)
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (a *API) deposit(w http.ResponseWriter, r *http.Request) error {
	return a.mutateBalance(w, r, a.ledger.Deposit)
}

func (a *API) withdraw(w http.ResponseWriter, r *http.Request) error {
	return a.mutateBalance(w, r, a.ledger.Withdraw)
}

func (a *API) mutateBalance(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(uuid.UUID, money.Money) (ledger.Account, error),
) error {
	id, err := accountID(r)
	if err != nil {
		return err
	}

	var req amountRequest

	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return err
	}

	account, err := mutate(id, amount)
	if err != nil {
		return err
	}

	return SendJSON(w, http.StatusOK, account)
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (a *API) transfer(w http.ResponseWriter, r *http.Request) error {
	var req transferRequest

	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	from, err := uuid.Parse(req.From)
	if err != nil {
		return BadRequestError("invalid from account id").WithInternalError(err)
	}

	to, err := uuid.Parse(req.To)
	if err != nil {
		return BadRequestError("invalid to account id").WithInternalError(err)
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return err
	}

	if err := a.ledger.Transfer(from, to, amount); err != nil {
		return err
	}

	return SendJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func accountID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, BadRequestError("invalid account id").
			WithInternalError(err)
	}

	return id, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return BadRequestError("invalid request body").WithInternalError(err)
	}

	return nil
}
