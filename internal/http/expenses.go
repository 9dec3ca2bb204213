package http

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"family-ledger-go/internal/service"
)

// Incomes

func (s *Server) listIncomes(c *gin.Context) {
	incomes, err := s.store.ListIncomes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, incomes)
}

func (s *Server) createIncome(c *gin.Context) {
	var input service.IncomeInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if input.RegisteredByID == 0 {
		input.RegisteredByID = c.GetUint("userID")
	}

	income, err := s.ledger.RecordIncome(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, income)
}

// Expenses

func (s *Server) listExpenses(c *gin.Context) {
	expenses, err := s.store.ListExpenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, expenses)
}

func (s *Server) listExpensesDetailed(c *gin.Context) {
	detailed, err := s.ledger.ExpensesDetailed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, detailed)
}

func (s *Server) listInstallments(c *gin.Context) {
	installments, err := s.ledger.ListInstallments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, installments)
}

// createExpense validates the raw payload against the embedded JSON
// Schema before binding, so shape errors come back as a detailed 422
// instead of a bind failure.
func (s *Server) createExpense(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read body"})
		return
	}

	result, err := s.expenseSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid json"})
		return
	}
	if !result.Valid() {
		details := []string{}
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		c.JSON(422, gin.H{"error": "schema_invalid", "details": details})
		return
	}

	var input service.ExpenseInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if input.RegisteredByID == 0 {
		input.RegisteredByID = c.GetUint("userID")
	}

	expense, err := s.ledger.RecordExpense(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, expense)
}

// PATCH /api/expenses/:id/pay
func (s *Server) payInstallment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input struct {
		PaymentDate string `json:"payment_date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if err := s.ledger.SettleInstallment(c.Request.Context(), id, input.PaymentDate); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}
