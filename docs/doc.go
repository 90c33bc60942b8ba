// Package docs provides generated OpenAPI documentation.
//
// labrelay API
//
//	@title			labrelay API
//	@version		1.0
//	@description	Relays lab reports to a document-extraction vendor and returns annotated lab values with a patient summary.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/labrelay
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/labrelay/serve.go -o ./swagger --outputTypes go,json --parseDependency --parseInternal
