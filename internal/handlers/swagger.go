package handlers

// @title Collections API
// @version 1.0
// @description CRUD operations on inventory collection records stored in DynamoDB

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name collections
// @tag.description Collection record operations
