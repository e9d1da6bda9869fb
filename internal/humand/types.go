package humand

import "encoding/json"

// Wire types: the platform speaks camelCase. They are mapped once, at this
// boundary, onto the canonical snake_case structs the rest of the service
// uses; both spellings never travel together.

type rawSegmentationGroup struct {
	ID       json.Number           `json:"id"`
	SharedID string                `json:"sharedId"`
	Name     string                `json:"name"`
	Items    []rawSegmentationItem `json:"items"`
}

type rawSegmentationItem struct {
	ID         json.Number `json:"id"`
	SharedID   string      `json:"sharedId"`
	Name       string      `json:"name"`
	UsersCount int         `json:"usersCount"`
}

type rawUserPage struct {
	Items []rawUser `json:"items"`
}

type rawUser struct {
	ID                 json.Number `json:"id"`
	EmployeeInternalID string      `json:"employeeInternalId"`
	FirstName          string      `json:"firstName"`
	LastName           string      `json:"lastName"`
	Email              string      `json:"email"`
}

type redashResult struct {
	QueryResult struct {
		Data struct {
			Rows []redashRow `json:"rows"`
		} `json:"data"`
	} `json:"query_result"`
}

type redashRow struct {
	FolderID    json.Number `json:"folder_id"`
	ID          json.Number `json:"id"`
	FolderName  string      `json:"folder_name"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ParentID    json.Number `json:"parent_id"`
	CreatedAt   string      `json:"created_at"`
}

// SegmentationGroup is a user segment group with its selectable items.
type SegmentationGroup struct {
	Group       string             `json:"group"`
	GroupName   string             `json:"group_name"`
	DisplayName string             `json:"display_name"`
	Items       []SegmentationItem `json:"items"`
}

type SegmentationItem struct {
	Name        string `json:"name"`
	ItemName    string `json:"item_name"`
	DisplayName string `json:"display_name"`
	UserCount   int    `json:"user_count"`
}

// User is one platform member, already mapped to the canonical field set.
type User struct {
	ID                 string `json:"id"`
	EmployeeInternalID string `json:"employee_internal_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Active             bool   `json:"active"`
}

// Folder is a per-user document folder on the platform.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}
