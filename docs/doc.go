// Package docs provides generated OpenAPI documentation.
//
// Fieldscan API
//
//	@title			Fieldscan API
//	@version		1.0
//	@description	Structured data extraction API for photographed maritime cargo documents.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/fieldscan/fieldscan
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/fieldscan/serve.go -o ./swagger --parseDependency --parseInternal
