// Package docs registers the OpenAPI document served at /swagger.
// Regenerate the paths with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {"get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Store unreachable"}}}},
        "/api/categories": {
            "get": {"tags": ["categories"], "summary": "Get categories", "parameters": [{"type": "string", "description": "income or expense", "name": "type", "in": "query"}], "responses": {"200": {"description": "List of categories"}}},
            "post": {"tags": ["categories"], "summary": "Create category", "parameters": [{"description": "Category data", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.CategoryRequest"}}], "responses": {"201": {"description": "Created category"}, "400": {"description": "Validation error"}, "409": {"description": "Category already exists"}}}
        },
        "/api/expenses": {
            "get": {"tags": ["transactions"], "summary": "List transactions", "parameters": [{"type": "string", "name": "year", "in": "query"}, {"type": "string", "name": "month", "in": "query"}, {"type": "string", "name": "search", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["transactions"], "summary": "Create transaction", "parameters": [{"name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.TransactionRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/api/expenses/{id}": {
            "get": {"tags": ["transactions"], "summary": "Get transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["transactions"], "summary": "Update transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.TransactionRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["transactions"], "summary": "Delete transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/api/incomes": {
            "get": {"tags": ["transactions"], "summary": "List transactions", "parameters": [{"type": "string", "name": "year", "in": "query"}, {"type": "string", "name": "month", "in": "query"}, {"type": "string", "name": "search", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["transactions"], "summary": "Create transaction", "parameters": [{"name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.TransactionRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/api/incomes/{id}": {
            "get": {"tags": ["transactions"], "summary": "Get transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["transactions"], "summary": "Update transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.TransactionRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["transactions"], "summary": "Delete transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/api/stocks": {
            "get": {"tags": ["stocks"], "summary": "List stock purchases", "parameters": [{"type": "string", "name": "year", "in": "query"}, {"type": "string", "name": "month", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["stocks"], "summary": "Create stock purchase", "parameters": [{"name": "purchase", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.StockRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/api/stocks/{id}": {
            "get": {"tags": ["stocks"], "summary": "Get stock purchase", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["stocks"], "summary": "Update stock purchase", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"name": "purchase", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.StockRequest"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["stocks"], "summary": "Delete stock purchase", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/api/stocks/summary": {"get": {"tags": ["stocks"], "summary": "Portfolio summary", "parameters": [{"type": "string", "name": "year", "in": "query"}, {"type": "string", "name": "month", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/stocks/sync": {"post": {"tags": ["stocks"], "summary": "Sync stock prices", "responses": {"200": {"description": "OK"}, "207": {"description": "Some tickers failed"}}}},
        "/api/stocks/info/{ticker}": {"get": {"tags": ["stocks"], "summary": "Stock quote", "parameters": [{"type": "string", "name": "ticker", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown ticker"}, "502": {"description": "Market data unavailable"}}}},
        "/api/summary/month": {"get": {"tags": ["summary"], "summary": "Monthly summary", "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}, {"type": "string", "name": "month", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}}},
        "/api/summary/year": {"get": {"tags": ["summary"], "summary": "Yearly summary", "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}}},
        "/api/summary/categories": {"get": {"tags": ["summary"], "summary": "Category breakdown", "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}, {"type": "string", "name": "month", "in": "query"}, {"type": "string", "name": "type", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/export/csv": {"get": {"tags": ["export"], "summary": "Export CSV", "produces": ["text/csv"], "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}, {"type": "string", "name": "month", "in": "query"}], "responses": {"200": {"description": "CSV file"}, "400": {"description": "Validation error"}}}},
        "/api/recurring/process": {"post": {"tags": ["recurring"], "summary": "Process recurring transactions", "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "main.CategoryRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string", "maxLength": 50}, "type": {"type": "string", "enum": ["income", "expense"]}, "color": {"type": "string", "example": "#22c55e"}, "icon": {"type": "string"}}},
        "main.TransactionRequest": {"type": "object", "properties": {"amount": {"type": "number"}, "category_id": {"type": "string"}, "new_category": {"$ref": "#/definitions/main.CategoryRequest"}, "date": {"type": "string", "example": "2025-03-05"}, "notes": {"type": "string"}, "is_recurring": {"type": "boolean"}}},
        "main.StockRequest": {"type": "object", "properties": {"ticker": {"type": "string"}, "name": {"type": "string"}, "quantity": {"type": "number"}, "price_per_unit": {"type": "number"}, "date": {"type": "string"}, "broker": {"type": "string"}, "fee": {"type": "number"}, "notes": {"type": "string"}, "current_value": {"type": "number"}, "currency": {"type": "string"}, "exchange_rate": {"type": "number"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "fintrack API",
	Description:      "Personal finance tracker: incomes, expenses, stock purchases, summaries and exports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
