package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Timetable API",
        "description": "Catalog, conflict checking, assignment planning and schedule replication for a school timetable.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Rooms", "description": "Classroom catalog"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Teachers", "description": "Teacher roster"},
        {"name": "Students", "description": "Student enrollment"},
        {"name": "Sections", "description": "Class sections"},
        {"name": "TimeSlots", "description": "Period grid"},
        {"name": "Semesters", "description": "Semester terms"},
        {"name": "Schedule", "description": "Assignment planning and replication"}
    ],
    "paths": {
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate room number"}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete room",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Dependent students, sections or schedules exist"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [{"name": "byGrade", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [{"name": "subject", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/scheduling/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List class sections (reconciled from room occupancy)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Create class section",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/scheduling/timeslots": {
            "get": {
                "tags": ["TimeSlots"],
                "summary": "List time slots",
                "parameters": [{"name": "schedulable", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["TimeSlots"],
                "summary": "Create time slot",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate slot order"}
                }
            }
        },
        "/scheduling/semesters": {
            "get": {
                "tags": ["Semesters"],
                "summary": "List semesters",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Semesters"],
                "summary": "Create semester",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate semester name"}
                }
            }
        },
        "/scheduling/available-subjects": {
            "get": {
                "tags": ["Courses"],
                "summary": "List distinct subjects",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scheduling/schedule/day/{day}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Daily schedule grid",
                "parameters": [
                    {"name": "day", "in": "path", "required": true, "type": "integer"},
                    {"name": "weekStart", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scheduling/schedule": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Assign a schedule entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created or replaced"},
                    "409": {"description": "Teacher or room conflict, with conflict details"}
                }
            }
        },
        "/scheduling/schedule/bulk-copy": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy one section's day to other days",
                "responses": {
                    "200": {"description": "Copy result with per-entry failure counts"},
                    "400": {"description": "No source schedule"}
                }
            }
        },
        "/scheduling/schedule/copy-day-to-week": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy a full day's grid to other days of the week",
                "responses": {
                    "200": {"description": "Copy result with per-entry failure counts"},
                    "400": {"description": "No source schedule"}
                }
            }
        },
        "/scheduling/schedule/copy-week-to-semester": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy a week's grid to other weeks of the semester",
                "responses": {
                    "200": {"description": "Copy result with per-entry failure counts"},
                    "400": {"description": "No source schedule"}
                }
            }
        },
        "/my/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Caller's personal schedule",
                "parameters": [{"name": "weekStart", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RoomRequest": {
            "type": "object",
            "properties": {
                "room_number": {"type": "string"},
                "room_name": {"type": "string"},
                "capacity": {"type": "integer"},
                "room_type": {"type": "string"},
                "is_available": {"type": "boolean"}
            }
        },
        "CourseRequest": {
            "type": "object",
            "properties": {
                "course_code": {"type": "string"},
                "course_name": {"type": "string"},
                "description": {"type": "string"},
                "subject": {"type": "string"},
                "grade_level": {"type": "string"}
            }
        },
        "TeacherRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "employee_id": {"type": "string"},
                "phone": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "student_id": {"type": "string"},
                "grade_level": {"type": "string"},
                "section": {"type": "string"},
                "room_id": {"type": "string"}
            }
        },
        "AssignScheduleRequest": {
            "type": "object",
            "properties": {
                "class_section_id": {"type": "string"},
                "time_slot_id": {"type": "string"},
                "course_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "week_start_date": {"type": "string"},
                "semester": {"type": "string"}
            }
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
