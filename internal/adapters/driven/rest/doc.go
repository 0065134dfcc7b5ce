// Package rest provides the REST backend adapter: document persistence and
// the text-analysis endpoints.
//
// Endpoints:
//
//	GET    /api/documents/                         list
//	POST   /api/documents/                         create {title, content}
//	GET    /api/documents/<id>/                    get
//	PATCH  /api/documents/<id>/                    partial update
//	DELETE /api/documents/<id>/                    delete
//	POST   /api/documents/<id>/get_ai_suggestions/ whole-document feedback
//	POST   /api/ai/suggestions/                    content suggestions {text}
//	POST   /api/ai/grammar/                        grammar check {text}
//	GET    /api/ai/word-analysis/<word>/           word analysis
//
// Document content travels as a JSON-encoded Delta string. Every request
// passes through a token-bucket limiter and is sent once; failures are not
// retried.
package rest
