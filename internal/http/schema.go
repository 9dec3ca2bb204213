package http

// expenseSchemaJSON shapes POST /api/expenses payloads. The schema
// requires at least two installments; the service separately rejects
// anything below one. Decimal fields accept numbers or numeric strings.
const expenseSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["titular_ids", "company_id", "date", "payment_type", "items"],
  "properties": {
    "titular_ids": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "integer", "minimum": 1}
    },
    "company_id": {"type": "integer", "minimum": 1},
    "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "payment_type": {"type": "string", "enum": ["cash", "installments"]},
    "note": {"type": "string", "maxLength": 200},
    "registered_by_id": {"type": "integer", "minimum": 1},
    "installment_count": {"type": "integer", "minimum": 2},
    "first_due_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["product_id", "quantity", "unit_price"],
        "properties": {
          "product_id": {"type": "integer", "minimum": 1},
          "quantity": {"type": ["number", "string"]},
          "unit_price": {"type": ["number", "string"]}
        }
      }
    }
  },
  "if": {"properties": {"payment_type": {"const": "installments"}}},
  "then": {"required": ["installment_count", "first_due_date"]}
}`
