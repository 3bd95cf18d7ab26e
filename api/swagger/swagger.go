package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ISI Portal Core API",
        "description": "Course scheduling, grade aggregation and report cards",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Courses"
        },
        {
            "name": "Periods"
        },
        {
            "name": "Assignments"
        },
        {
            "name": "Evaluations"
        },
        {
            "name": "ReportCards"
        },
        {
            "name": "PromotionRules"
        },
        {
            "name": "Health"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Liveness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Readiness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "List courses",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Courses"
                ],
                "summary": "Create course",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateCourseRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/courses/{id}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Get course",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Courses"
                ],
                "summary": "Update course",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateCourseRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Courses"
                ],
                "summary": "Delete course",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/periods": {
            "get": {
                "tags": [
                    "Periods"
                ],
                "summary": "List periods",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Periods"
                ],
                "summary": "Create period",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreatePeriodRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/periods/{id}": {
            "get": {
                "tags": [
                    "Periods"
                ],
                "summary": "Get period",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/periods/{id}/close": {
            "post": {
                "tags": [
                    "Periods"
                ],
                "summary": "Close period",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/assignments": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "List course assignments",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Assign a course to a class",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateAssignmentRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Get course assignment",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "patch": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Update assignment details",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateAssignmentRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}/slots": {
            "post": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Add a weekly time slot",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TimeSlotRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}/slots/{slotId}": {
            "put": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Move a weekly time slot",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "slotId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TimeSlotRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Remove a weekly time slot",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "slotId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}/status": {
            "post": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Change assignment status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChangeStatusRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}/progression": {
            "post": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Report course progression",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ProgressionRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/classes/{id}/assignments": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "List the assignments of a class",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/evaluations": {
            "get": {
                "tags": [
                    "Evaluations"
                ],
                "summary": "List evaluations",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Evaluations"
                ],
                "summary": "Record an evaluation",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RecordEvaluationRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/evaluations/{id}": {
            "put": {
                "tags": [
                    "Evaluations"
                ],
                "summary": "Correct an evaluation",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateEvaluationRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Evaluations"
                ],
                "summary": "Delete an evaluation",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/students/{id}/periods/{periodId}/averages": {
            "get": {
                "tags": [
                    "Evaluations"
                ],
                "summary": "Subject and period averages of a student",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "periodId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/report-cards/generate": {
            "post": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Generate the report card of a student",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateReportCardRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/classes/{id}/periods/{periodId}/report-cards": {
            "post": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Generate the report cards of a class",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "periodId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/report-cards/{id}": {
            "get": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Get a stored report card",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/report-cards/{id}/share": {
            "post": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Share a closed report card",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/report-cards/{id}/pdf": {
            "get": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Download the bulletin as PDF",
                "produces": [
                    "application/pdf"
                ],
                "responses": {
                    "200": {
                        "description": "PDF bulletin"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/classes/{id}/periods/{periodId}/ranking.csv": {
            "get": {
                "tags": [
                    "ReportCards"
                ],
                "summary": "Download the class ranking",
                "produces": [
                    "text/csv"
                ],
                "responses": {
                    "200": {
                        "description": "Semicolon separated ranking"
                    },
                    "412": {
                        "description": "Period still open"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "periodId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/promotion-rules": {
            "get": {
                "tags": [
                    "PromotionRules"
                ],
                "summary": "List promotion rule history",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/promotion-rules/active": {
            "get": {
                "tags": [
                    "PromotionRules"
                ],
                "summary": "Get the active promotion rule",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "PromotionRules"
                ],
                "summary": "Replace the active promotion rule",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SetPromotionRuleRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/promotion-rules/evaluate": {
            "post": {
                "tags": [
                    "PromotionRules"
                ],
                "summary": "Check a profile against the active rule",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EvaluateRuleRequest"
                        }
                    }
                ]
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": [
                "titre",
                "matiere_id",
                "niveau"
            ],
            "properties": {
                "titre": {
                    "type": "string"
                },
                "matiere_id": {
                    "type": "string"
                },
                "niveau": {
                    "type": "string"
                },
                "heures_par_semaine": {
                    "type": "number"
                },
                "coefficient": {
                    "type": "number"
                },
                "statut": {
                    "type": "string",
                    "enum": [
                        "planned",
                        "active",
                        "cancelled",
                        "finished"
                    ]
                }
            }
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "titre": {
                    "type": "string"
                },
                "niveau": {
                    "type": "string"
                },
                "heures_par_semaine": {
                    "type": "number"
                },
                "coefficient": {
                    "type": "number"
                },
                "statut": {
                    "type": "string"
                }
            }
        },
        "CreatePeriodRequest": {
            "type": "object",
            "required": [
                "annee_scolaire",
                "date_debut",
                "date_fin"
            ],
            "properties": {
                "annee_scolaire": {
                    "type": "string",
                    "example": "2024-2025"
                },
                "semestre": {
                    "type": "integer",
                    "enum": [
                        1,
                        2
                    ]
                },
                "date_debut": {
                    "type": "string",
                    "format": "date-time"
                },
                "date_fin": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "required": [
                "cours_id",
                "classe_id",
                "date_debut"
            ],
            "properties": {
                "cours_id": {
                    "type": "string"
                },
                "classe_id": {
                    "type": "string"
                },
                "annee_scolaire": {
                    "type": "string"
                },
                "date_debut": {
                    "type": "string",
                    "format": "date-time"
                },
                "date_fin": {
                    "type": "string",
                    "format": "date-time"
                },
                "heures_souhaitees": {
                    "type": "number"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "UpdateAssignmentRequest": {
            "type": "object",
            "properties": {
                "notes": {
                    "type": "string"
                },
                "date_fin": {
                    "type": "string",
                    "format": "date-time"
                },
                "heures_souhaitees": {
                    "type": "number"
                }
            }
        },
        "TimeSlotRequest": {
            "type": "object",
            "required": [
                "jour",
                "heure_debut",
                "heure_fin"
            ],
            "properties": {
                "jour": {
                    "type": "string",
                    "example": "lundi"
                },
                "heure_debut": {
                    "type": "string",
                    "example": "08:00"
                },
                "heure_fin": {
                    "type": "string",
                    "example": "09:30"
                },
                "salle": {
                    "type": "string"
                }
            }
        },
        "ChangeStatusRequest": {
            "type": "object",
            "required": [
                "statut"
            ],
            "properties": {
                "statut": {
                    "type": "string",
                    "enum": [
                        "planned",
                        "active",
                        "finished",
                        "cancelled"
                    ]
                }
            }
        },
        "ProgressionRequest": {
            "type": "object",
            "properties": {
                "progression": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 100
                }
            }
        },
        "RecordEvaluationRequest": {
            "type": "object",
            "required": [
                "eleve_id",
                "matiere_id",
                "classe_id",
                "periode_id",
                "categorie",
                "date"
            ],
            "properties": {
                "eleve_id": {
                    "type": "string"
                },
                "matiere_id": {
                    "type": "string"
                },
                "classe_id": {
                    "type": "string"
                },
                "periode_id": {
                    "type": "string"
                },
                "categorie": {
                    "type": "string",
                    "enum": [
                        "continuous",
                        "formal"
                    ]
                },
                "intitule": {
                    "type": "string"
                },
                "note": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 20
                },
                "coefficient": {
                    "type": "number"
                },
                "date": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "UpdateEvaluationRequest": {
            "type": "object",
            "properties": {
                "categorie": {
                    "type": "string"
                },
                "intitule": {
                    "type": "string"
                },
                "note": {
                    "type": "number"
                },
                "coefficient": {
                    "type": "number"
                },
                "date": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "GenerateReportCardRequest": {
            "type": "object",
            "required": [
                "eleve_id",
                "periode_id"
            ],
            "properties": {
                "eleve_id": {
                    "type": "string"
                },
                "periode_id": {
                    "type": "string"
                },
                "classe_id": {
                    "type": "string"
                }
            }
        },
        "SetPromotionRuleRequest": {
            "type": "object",
            "properties": {
                "moyenne_minimale": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 20
                },
                "conditions_supplementaires": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                }
            }
        },
        "EvaluateRuleRequest": {
            "type": "object",
            "properties": {
                "moyenne": {
                    "type": "number"
                },
                "valeurs_supplementaires": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                }
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
