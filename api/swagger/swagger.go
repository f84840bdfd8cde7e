package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Certificate Registry API",
        "description": "Certificate lifecycle management: registry books, blanks, issuance, corrections",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Registry Books", "description": "Registry book lifecycle and manifest exports"},
        {"name": "Certificate Types", "description": "Certificate type catalogue"},
        {"name": "Blanks", "description": "Physical blank stock and inventory trail"},
        {"name": "Certificates", "description": "Issuance, revocation, replacement, corrections"},
        {"name": "Decisions", "description": "Graduation decisions"}
    ],
    "paths": {
        "/registry-books": {
            "get": {
                "tags": ["Registry Books"],
                "summary": "List registry books",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "is_closed", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Registry Books"],
                "summary": "Open registry book",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenRegistryBookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registry-books/{id}": {
            "get": {
                "tags": ["Registry Books"],
                "summary": "Get registry book",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registry-books/{id}/close": {
            "post": {
                "tags": ["Registry Books"],
                "summary": "Close registry book",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registry-books/{id}/export": {
            "get": {
                "tags": ["Registry Books"],
                "summary": "Export registry book manifest",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Manifest file"}
                }
            }
        },
        "/certificate-types": {
            "get": {
                "tags": ["Certificate Types"],
                "summary": "List certificate types",
                "parameters": [
                    {"name": "is_active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Certificate Types"],
                "summary": "Register certificate type",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCertificateTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificate-types/{id}": {
            "get": {
                "tags": ["Certificate Types"],
                "summary": "Get certificate type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Certificate Types"],
                "summary": "Update certificate type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCertificateTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blanks/receive": {
            "post": {
                "tags": ["Blanks"],
                "summary": "Receive a serial range of blanks",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReceiveBlanksRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blanks": {
            "get": {
                "tags": ["Blanks"],
                "summary": "List blanks",
                "parameters": [
                    {"name": "certificate_type_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blanks/{serial}": {
            "get": {
                "tags": ["Blanks"],
                "summary": "Get blank by serial",
                "parameters": [
                    {"name": "serial", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificates": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List certificates",
                "parameters": [
                    {"name": "registry_book_id", "in": "query", "type": "string"},
                    {"name": "certificate_type_id", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "decision_number", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Certificates"],
                "summary": "Issue certificate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IssueCertificateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificates/{id}/revoke": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Revoke certificate",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RevokeCertificateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificates/{id}/corrections": {
            "get": {
                "tags": ["Certificates"],
                "summary": "List correction history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Certificates"],
                "summary": "Record correction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CorrectCertificateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/decisions": {
            "get": {
                "tags": ["Decisions"],
                "summary": "List graduation decisions",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "is_published", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Decisions"],
                "summary": "Record graduation decision",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordDecisionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "OpenRegistryBookRequest": {
            "type": "object",
            "properties": {
                "book_number": {"type": "string"},
                "year": {"type": "integer"},
                "storage_location": {"type": "string"}
            },
            "required": ["book_number", "year"]
        },
        "CreateCertificateTypeRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "template_path": {"type": "string"},
                "validity_months": {"type": "integer"},
                "metadata": {"type": "object"}
            },
            "required": ["code", "name"]
        },
        "UpdateCertificateTypeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "template_path": {"type": "string"},
                "validity_months": {"type": "integer"},
                "metadata": {"type": "object"}
            }
        },
        "ReceiveBlanksRequest": {
            "type": "object",
            "properties": {
                "certificate_type_id": {"type": "string"},
                "serial_from": {"type": "string"},
                "serial_to": {"type": "string"},
                "received_from": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["certificate_type_id", "serial_from", "serial_to"]
        },
        "StudentSnapshot": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "dob": {"type": "string"},
                "pob": {"type": "string"},
                "gender": {"type": "string"},
                "ethnicity": {"type": "string"},
                "nationality": {"type": "string"},
                "id_number": {"type": "string"}
            },
            "required": ["student_id", "full_name", "dob", "pob", "gender"]
        },
        "IssueCertificateRequest": {
            "type": "object",
            "properties": {
                "registry_book_id": {"type": "string"},
                "certificate_type_id": {"type": "string"},
                "blank_serial": {"type": "string"},
                "student": {"$ref": "#/definitions/StudentSnapshot"},
                "classification": {"type": "string"},
                "decision_number": {"type": "string"},
                "decision_date": {"type": "string"},
                "serial_number": {"type": "string"},
                "registry_number": {"type": "string"},
                "issue_date": {"type": "string"},
                "expiry_date": {"type": "string"},
                "signer_name": {"type": "string"},
                "signer_title": {"type": "string"},
                "metadata": {"type": "object"}
            },
            "required": ["registry_book_id", "certificate_type_id", "student", "classification", "decision_number", "decision_date", "serial_number", "registry_number", "issue_date"]
        },
        "RevokeCertificateRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "decision_number": {"type": "string"},
                "date": {"type": "string"}
            },
            "required": ["reason", "decision_number", "date"]
        },
        "CorrectCertificateRequest": {
            "type": "object",
            "properties": {
                "correction_decision_number": {"type": "string"},
                "correction_date": {"type": "string"},
                "new_content": {"$ref": "#/definitions/StudentSnapshot"},
                "reason": {"type": "string"},
                "approved_by": {"type": "string"}
            },
            "required": ["correction_decision_number", "correction_date", "new_content", "reason"]
        },
        "RecordDecisionRequest": {
            "type": "object",
            "properties": {
                "decision_number": {"type": "string"},
                "decision_date": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "signer_name": {"type": "string"},
                "signer_title": {"type": "string"},
                "total_graduates": {"type": "integer"},
                "metadata": {"type": "object"}
            },
            "required": ["decision_number", "decision_date", "title", "signer_name", "signer_title"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
