package server

import (
	"bytes"
	"encoding/json"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/rustyeddy/tradejournal/equity"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logger"
	"github.com/rustyeddy/tradejournal/risk"
)

// AccountRequest is the body of POST /accounts. Nil fields take the
// configured defaults.
type AccountRequest struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	StartingBalance      *float64              `json:"starting_balance"`
	ProfitTargetPct      *float64              `json:"profit_target_pct"`
	Daily                *equity.DailyDrawdown `json:"daily_drawdown"`
	Max                  *equity.MaxDrawdown   `json:"max_drawdown"`
	LegacyMaxDrawdownPct *float64              `json:"legacy_max_drawdown_pct"`
}

func (r *Router) account(req AccountRequest) equity.Account {
	a := r.defaults.Account(req.Name)
	a.ID = req.ID
	if req.StartingBalance != nil {
		a.StartingBalance = *req.StartingBalance
	}
	if req.ProfitTargetPct != nil {
		a.ProfitTargetPct = *req.ProfitTargetPct
	}
	if req.Daily != nil {
		a.Daily = *req.Daily
	}
	if req.Max != nil {
		a.Max = req.Max
	}
	if req.LegacyMaxDrawdownPct != nil {
		// legacy accounts carry only the flat percentage
		a.Max = nil
		a.LegacyMaxDrawdownPct = *req.LegacyMaxDrawdownPct
	}
	return a
}

func (r *Router) listAccounts(c *fiber.Ctx) error {
	ctx, cancel := r.context(c)
	defer cancel()

	accounts, err := r.store.ListAccounts(ctx)
	if err != nil {
		return storeError(err)
	}
	if accounts == nil {
		accounts = []equity.Account{}
	}
	return c.JSON(accounts)
}

func (r *Router) createAccount(c *fiber.Ctx) error {
	var req AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account body: "+err.Error())
	}

	ctx, cancel := r.context(c)
	defer cancel()

	a := r.account(req)
	if err := r.store.CreateAccount(ctx, &a); err != nil {
		return storeError(err)
	}

	logger.Logger.Info().Str("account", a.ID).Str("name", a.Name).Msg("account created")
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (r *Router) getAccount(c *fiber.Ctx) error {
	ctx, cancel := r.context(c)
	defer cancel()

	a, err := r.store.GetAccount(ctx, c.Params("id"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(a)
}

func (r *Router) deleteAccount(c *fiber.Ctx) error {
	ctx, cancel := r.context(c)
	defer cancel()

	if err := r.store.DeleteAccount(ctx, c.Params("id")); err != nil {
		return storeError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listTrades returns JSON, or CSV when asked for with ?format=csv.
func (r *Router) listTrades(c *fiber.Ctx) error {
	ctx, cancel := r.context(c)
	defer cancel()

	trades, err := r.store.ListTrades(ctx, c.Params("id"))
	if err != nil {
		return storeError(err)
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := journal.WriteTradesCSV(&buf, trades); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.Send(buf.Bytes())
	}

	if trades == nil {
		trades = []equity.Trade{}
	}
	return c.JSON(trades)
}

// addTrades accepts one JSON trade, a JSON array, or a CSV document sent as
// text/csv. A batch is stored atomically.
func (r *Router) addTrades(c *fiber.Ctx) error {
	trades, err := decodeTrades(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if len(trades) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no trades in body")
	}

	ctx, cancel := r.context(c)
	defer cancel()

	accountID := c.Params("id")
	if err := r.store.AddTrades(ctx, accountID, trades); err != nil {
		return storeError(err)
	}

	logger.Logger.Info().Str("account", accountID).Int("count", len(trades)).Msg("trades added")
	return c.Status(fiber.StatusCreated).JSON(trades)
}

func decodeTrades(c *fiber.Ctx) ([]equity.Trade, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), "text/csv") {
		return journal.ReadTradesCSV(bytes.NewReader(c.Body()))
	}

	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && body[0] == '[' {
		var trades []equity.Trade
		err := json.Unmarshal(body, &trades)
		return trades, err
	}

	var t equity.Trade
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, err
	}
	return []equity.Trade{t}, nil
}

func (r *Router) deleteTrade(c *fiber.Ctx) error {
	ctx, cancel := r.context(c)
	defer cancel()

	if err := r.store.DeleteTrade(ctx, c.Params("id"), c.Params("trade_id")); err != nil {
		return storeError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// chart loads an account and its trades and runs the equity pipeline.
func (r *Router) chart(c *fiber.Ctx) (equity.Account, equity.Chart, error) {
	ctx, cancel := r.context(c)
	defer cancel()

	id := c.Params("id")
	a, err := r.store.GetAccount(ctx, id)
	if err != nil {
		return equity.Account{}, equity.Chart{}, storeError(err)
	}
	trades, err := r.store.ListTrades(ctx, id)
	if err != nil {
		return equity.Account{}, equity.Chart{}, storeError(err)
	}
	return a, equity.BuildChart(trades, a), nil
}

func (r *Router) getChart(c *fiber.Ctx) error {
	_, chart, err := r.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(chart)
}

func (r *Router) getStats(c *fiber.Ctx) error {
	_, chart, err := r.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(chart.Stats)
}

func (r *Router) getObjectives(c *fiber.Ctx) error {
	_, chart, err := r.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(risk.Evaluate(chart))
}

// getReport renders the account summary as Org text.
func (r *Router) getReport(c *fiber.Ctx) error {
	a, chart, err := r.chart(c)
	if err != nil {
		return err
	}
	out, err := journal.FormatAccountOrg(a, chart)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "text/org; charset=utf-8")
	return c.SendString(out)
}
