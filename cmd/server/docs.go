package main

// @title Inventory and Invoicing API
// @version 1.0
// @description Products, customers, stock levels and invoices with transactional stock movements
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-invoicing
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/inventory-invoicing/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @tag.name Products
// @tag.description Product catalog endpoints

// @tag.name Customers
// @tag.description Customer management endpoints

// @tag.name Inventory
// @tag.description Stock level endpoints

// @tag.name Invoices
// @tag.description Invoice endpoints

// @tag.name Health
// @tag.description Health check endpoints
