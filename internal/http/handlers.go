package http

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"family-ledger-go/internal/models"
)

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Users

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, users)
}

func (s *Server) createUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(input.Role) {
		c.JSON(400, gin.H{"error": "role must be father, mother, son or daughter"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		Balance:      decimal.Zero,
	}
	if err := s.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := s.store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if v, ok := input["name"].(string); ok {
		user.Name = v
	}
	if v, ok := input["username"].(string); ok {
		user.Username = v
	}
	if v, ok := input["role"].(string); ok {
		if !models.ValidRole(v) {
			c.JSON(400, gin.H{"error": "role must be father, mother, son or daughter"})
			return
		}
		user.Role = v
	}
	if v, ok := input["password"].(string); ok && strings.TrimSpace(v) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

// Companies

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.store.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, companies)
}

func (s *Server) createCompany(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
		Type string `json:"type" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCompanyType(input.Type) {
		c.JSON(400, gin.H{"error": "type must be payer or receiver"})
		return
	}

	company := models.Company{Name: input.Name, Type: input.Type}
	if err := s.store.CreateCompany(c.Request.Context(), &company); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, company)
}

func (s *Server) updateCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	company, err := s.store.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if v, ok := input["name"].(string); ok {
		company.Name = v
	}
	if v, ok := input["type"].(string); ok {
		if !models.ValidCompanyType(v) {
			c.JSON(400, gin.H{"error": "type must be payer or receiver"})
			return
		}
		company.Type = v
	}

	if err := s.store.UpdateCompany(c.Request.Context(), company); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, company)
}

func (s *Server) deleteCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteCompany(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

// Products

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.store.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, products)
}

func (s *Server) getProductByBarcode(c *gin.Context) {
	product, err := s.store.GetProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var input struct {
		Barcode        string          `json:"barcode"`
		Name           string          `json:"name" binding:"required"`
		Unit           string          `json:"unit" binding:"required"`
		Classification string          `json:"classification" binding:"required"`
		UnitPrice      decimal.Decimal `json:"unit_price"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if !input.UnitPrice.IsPositive() {
		c.JSON(400, gin.H{"error": "unit_price must be positive"})
		return
	}

	product := models.Product{
		Barcode:        input.Barcode,
		Name:           input.Name,
		Unit:           input.Unit,
		Classification: input.Classification,
		UnitPrice:      input.UnitPrice.Round(2),
	}
	if err := s.store.CreateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := s.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if v, ok := input["barcode"].(string); ok {
		product.Barcode = v
	}
	if v, ok := input["name"].(string); ok {
		product.Name = v
	}
	if v, ok := input["unit"].(string); ok {
		product.Unit = v
	}
	if v, ok := input["classification"].(string); ok {
		product.Classification = v
	}
	if raw, exists := input["unit_price"]; exists {
		price, err := decimalFromJSON(raw)
		if err != nil || !price.IsPositive() {
			c.JSON(400, gin.H{"error": "unit_price must be a positive decimal"})
			return
		}
		product.UnitPrice = price.Round(2)
	}

	if err := s.store.UpdateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

// decimalFromJSON accepts the two shapes decimals arrive in from clients:
// a JSON number or a numeric string.
func decimalFromJSON(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Zero, strconv.ErrSyntax
	}
}
