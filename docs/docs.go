// Package docs serves the OpenAPI description of the HTTP API. It follows the
// swag template layout and is kept in step with the handler annotations by hand.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and database reachability",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/periods/{id}/contributions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["periods"],
                "summary": "Developer rows of a period",
                "parameters": [
                    {"type": "integer", "description": "period id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.DeveloperContribution"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/periods/{id}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["periods"],
                "summary": "Distribution of contributions in a period",
                "parameters": [
                    {"type": "integer", "description": "period id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.PeriodSummary"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "List tracked repositories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Repository"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "Track a repository",
                "parameters": [
                    {"description": "owner, name and optional since date", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dtos.RepositoryInput"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/domain.Repository"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "Get a repository by its public id",
                "parameters": [
                    {"type": "string", "description": "repository public id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Repository"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories/{owner}/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "Get a repository",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Repository"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/bus-factor": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commits"],
                "summary": "Bus factor",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BusFactor"}}
                }
            }
        },
        "/repositories/{owner}/{name}/commits": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commits"],
                "summary": "List commits of a repository",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "page (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size (default 10, max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "date, created_at, author_name, author_login or sha", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "direction", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dtos.MultiCommitsResponse"}}
                }
            }
        },
        "/repositories/{owner}/{name}/commits/{sha}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commits"],
                "summary": "One commit with its files",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"type": "string", "description": "commit sha", "name": "sha", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Commit"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/contributors/top": {
            "get": {
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "Top contributors",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "number of contributors (default 10, max 100)", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Contributor"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/critical-files": {
            "get": {
                "produces": ["application/json"],
                "tags": ["commits"],
                "summary": "Files touched by the most commits",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "number of files (default 10, max 100)", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CriticalFile"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/periods": {
            "get": {
                "produces": ["application/json"],
                "tags": ["periods"],
                "summary": "Aggregated periods of a repository",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ContributionPeriod"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["periods"],
                "summary": "Aggregate a contribution period",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"description": "start_date and end_date, YYYY-MM-DD", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dtos.PeriodInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dtos.PeriodResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/pull-requests": {
            "get": {
                "produces": ["application/json"],
                "tags": ["repositories"],
                "summary": "Pull requests of a repository",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.PullRequest"}}}
                }
            }
        },
        "/repositories/{owner}/{name}/snapshots": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Take a repository snapshot",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true},
                    {"description": "date, YYYY-MM-DD", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/dtos.SnapshotInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RepoStat"}}
                }
            }
        },
        "/repositories/{owner}/{name}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Snapshots of a repository",
                "parameters": [
                    {"type": "string", "description": "repository owner", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "description": "repository name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.RepoStat"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.AuthorCommits": {
            "type": "object",
            "properties": {
                "commits": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "domain.BusFactor": {
            "type": "object",
            "properties": {
                "bus_factor": {"type": "integer"},
                "key_authors": {"type": "array", "items": {"$ref": "#/definitions/domain.AuthorCommits"}},
                "total_commits": {"type": "integer"}
            }
        },
        "domain.Commit": {
            "type": "object",
            "properties": {
                "author_email": {"type": "string"},
                "author_login": {"type": "string"},
                "author_name": {"type": "string"},
                "date": {"type": "string"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/domain.CommitFile"}},
                "message": {"type": "string"},
                "sha": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "domain.CommitFile": {
            "type": "object",
            "properties": {
                "additions": {"type": "integer"},
                "changes": {"type": "integer"},
                "deletions": {"type": "integer"},
                "filename": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "domain.ContributionPeriod": {
            "type": "object",
            "properties": {
                "end_date": {"type": "string"},
                "id": {"type": "integer"},
                "start_date": {"type": "string"}
            }
        },
        "domain.Contributor": {
            "type": "object",
            "properties": {
                "contributions": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "domain.CriticalFile": {
            "type": "object",
            "properties": {
                "authors": {"type": "integer"},
                "changes": {"type": "integer"},
                "commits": {"type": "integer"},
                "filename": {"type": "string"}
            }
        },
        "domain.DeveloperContribution": {
            "type": "object",
            "properties": {
                "commits_count": {"type": "integer"},
                "contributor_username": {"type": "string"},
                "contributions_total": {"type": "integer"},
                "issues_count": {"type": "integer"},
                "period_id": {"type": "integer"},
                "pull_requests_count": {"type": "integer"},
                "reviews_count": {"type": "integer"}
            }
        },
        "domain.PeriodSummary": {
            "type": "object",
            "properties": {
                "developers": {"type": "integer"},
                "mean": {"type": "number"},
                "median": {"type": "number"},
                "p90": {"type": "number"},
                "period_id": {"type": "integer"},
                "std_dev": {"type": "number"},
                "top_contributor": {"type": "string"},
                "total": {"type": "integer"}
            }
        },
        "domain.PullRequest": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "closed_at": {"type": "string"},
                "created_at": {"type": "string"},
                "merged_at": {"type": "string"},
                "pr_number": {"type": "integer"},
                "state": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "domain.RepoStat": {
            "type": "object",
            "properties": {
                "commits": {"type": "integer"},
                "issues": {"type": "integer"},
                "open_issues": {"type": "integer"},
                "pull_requests": {"type": "integer"},
                "snapshot_date": {"type": "string"}
            }
        },
        "domain.Repository": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "last_synced_at": {"type": "string"},
                "name": {"type": "string"},
                "owner": {"type": "string"},
                "updated_at": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dtos.MultiCommitsResponse": {
            "type": "object",
            "properties": {
                "commits": {"type": "array", "items": {"$ref": "#/definitions/domain.Commit"}},
                "page_info": {"$ref": "#/definitions/dtos.PagingInfo"}
            }
        },
        "dtos.PagingInfo": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "has_next_page": {"type": "boolean"},
                "page": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "dtos.PeriodInput": {
            "type": "object",
            "properties": {
                "end_date": {"type": "string"},
                "start_date": {"type": "string"}
            }
        },
        "dtos.PeriodResponse": {
            "type": "object",
            "properties": {
                "contributions": {"type": "array", "items": {"$ref": "#/definitions/domain.DeveloperContribution"}},
                "period": {"$ref": "#/definitions/domain.ContributionPeriod"}
            }
        },
        "dtos.RepositoryInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "owner": {"type": "string"},
                "since": {"type": "string"}
            }
        },
        "dtos.SnapshotInput": {
            "type": "object",
            "properties": {
                "date": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Repository Analytics API",
	Description:      "Stores repository activity and serves contributor rollups and snapshots",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
