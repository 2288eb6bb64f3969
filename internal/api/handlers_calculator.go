package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/edalens/internal/calculator"
)

// operand accepts either a JSON string or a bare JSON value (number, null),
// keeping the raw text so invalid input reaches the calculator unchanged.
type operand string

func (o *operand) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = operand(s)
		return nil
	}
	*o = operand(strings.TrimSpace(string(b)))
	return nil
}

type calculateRequest struct {
	Num1      operand `json:"num1"`
	Num2      operand `json:"num2"`
	Operation string  `json:"operation"`
}

type calculateResponse struct {
	Result string `json:"result"`
}

// HandleCalculatorPage renders the calculator form
func (h *Handler) HandleCalculatorPage(c echo.Context) error {
	return c.Render(http.StatusOK, "calculator", pageData{
		Title:     "Calculator",
		Active:    "calculator",
		Version:   h.version,
		Ops:       calculator.Ops,
		Operation: string(calculator.Add),
	})
}

// HandleCalculatorForm computes the submitted operation and re-renders the form
func (h *Handler) HandleCalculatorForm(c echo.Context) error {
	num1, num2, op := c.FormValue("num1"), c.FormValue("num2"), c.FormValue("operation")
	return c.Render(http.StatusOK, "calculator", pageData{
		Title:     "Calculator",
		Active:    "calculator",
		Version:   h.version,
		Ops:       calculator.Ops,
		Num1:      num1,
		Num2:      num2,
		Operation: op,
		CalcOut:   calculator.Calculate(num1, num2, op),
	})
}

// HandleCalculateAPI computes {num1, num2, operation} and returns {result}
func (h *Handler) HandleCalculateAPI(c echo.Context) error {
	var req calculateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	return c.JSON(http.StatusOK, calculateResponse{
		Result: calculator.Calculate(string(req.Num1), string(req.Num2), req.Operation),
	})
}
