package onedrive

import (
	"errors"
	"fmt"
	"strings"
)

// DriveItem is the subset of a Graph driveItem the server inspects. Payloads
// returned to callers are passed through unmodified.
type DriveItem struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Size            int64          `json:"size,omitempty"`
	WebURL          string         `json:"webUrl,omitempty"`
	ParentReference *ItemReference `json:"parentReference,omitempty"`
	Folder          *FolderFacet   `json:"folder,omitempty"`
	File            *FileFacet     `json:"file,omitempty"`
}

// IsFolder reports whether the item carries a folder facet.
func (d DriveItem) IsFolder() bool {
	return d.Folder != nil
}

// ItemReference points at a parent item.
type ItemReference struct {
	DriveID string `json:"driveId,omitempty"`
	ID      string `json:"id,omitempty"`
	Path    string `json:"path,omitempty"`
}

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	ChildCount int `json:"childCount"`
}

// FileFacet marks an item as a file.
type FileFacet struct {
	MimeType string `json:"mimeType,omitempty"`
}

// DriveItemList is a page of driveItems.
type DriveItemList struct {
	Value    []DriveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink,omitempty"`
}

// SharingLink is the link facet of a createLink response.
type SharingLink struct {
	Type   string `json:"type"`
	Scope  string `json:"scope"`
	WebURL string `json:"webUrl"`
}

// Permission is the createLink response body.
type Permission struct {
	ID   string      `json:"id"`
	Link SharingLink `json:"link"`
}

// ErrInvalidOption is returned when an enumerated argument has an unknown value.
var ErrInvalidOption = errors.New("invalid option")

// ConflictPolicy decides what create-file does when the name is taken.
type ConflictPolicy string

const (
	ConflictError   ConflictPolicy = "error"
	ConflictRename  ConflictPolicy = "rename"
	ConflictReplace ConflictPolicy = "replace"
)

// ConflictPolicies lists the accepted values in schema order.
func ConflictPolicies() []string {
	return []string{string(ConflictError), string(ConflictRename), string(ConflictReplace)}
}

// ParseConflictPolicy parses s; the empty string yields ConflictError.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	if s == "" {
		return ConflictError, nil
	}
	return parseEnum(s, ConflictPolicies(), func(v string) ConflictPolicy { return ConflictPolicy(v) }, "if_exists")
}

// FolderConflictBehavior is sent to Graph as @microsoft.graph.conflictBehavior.
type FolderConflictBehavior string

const (
	FolderFail    FolderConflictBehavior = "fail"
	FolderReplace FolderConflictBehavior = "replace"
	FolderRename  FolderConflictBehavior = "rename"
)

// FolderConflictBehaviors lists the accepted values in schema order.
func FolderConflictBehaviors() []string {
	return []string{string(FolderFail), string(FolderReplace), string(FolderRename)}
}

// ParseFolderConflictBehavior parses s; the empty string yields FolderFail.
func ParseFolderConflictBehavior(s string) (FolderConflictBehavior, error) {
	if s == "" {
		return FolderFail, nil
	}
	return parseEnum(s, FolderConflictBehaviors(), func(v string) FolderConflictBehavior { return FolderConflictBehavior(v) }, "behavior")
}

// LinkType is the kind of sharing link.
type LinkType string

const (
	LinkView  LinkType = "view"
	LinkEdit  LinkType = "edit"
	LinkEmbed LinkType = "embed"
)

// LinkTypes lists the accepted values in schema order.
func LinkTypes() []string {
	return []string{string(LinkView), string(LinkEdit), string(LinkEmbed)}
}

// ParseLinkType parses s; the empty string yields LinkView.
func ParseLinkType(s string) (LinkType, error) {
	if s == "" {
		return LinkView, nil
	}
	return parseEnum(s, LinkTypes(), func(v string) LinkType { return LinkType(v) }, "link_type")
}

// LinkScope is the audience of a sharing link.
type LinkScope string

const (
	ScopeAnonymous    LinkScope = "anonymous"
	ScopeOrganization LinkScope = "organization"
)

// LinkScopes lists the accepted values in schema order.
func LinkScopes() []string {
	return []string{string(ScopeAnonymous), string(ScopeOrganization)}
}

// ParseLinkScope parses s; the empty string yields ScopeAnonymous.
func ParseLinkScope(s string) (LinkScope, error) {
	if s == "" {
		return ScopeAnonymous, nil
	}
	return parseEnum(s, LinkScopes(), func(v string) LinkScope { return LinkScope(v) }, "scope")
}

func parseEnum[T ~string](s string, allowed []string, conv func(string) T, arg string) (T, error) {
	for _, a := range allowed {
		if s == a {
			return conv(s), nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidOption, arg, strings.Join(allowed, ", "), s)
}
