package services

import (
	"net/url"
	"regexp"
	"strings"
)

// Accepted share-link shapes on the two Google document hosts. Public
// submissions may point at a drive folder instead of uploading files, so the
// predicate only rejects malformed or unrelated URLs; it never checks
// reachability.
var (
	driveFilePattern      = regexp.MustCompile(`^/file/d/[^/]+.*`)
	driveFolderPattern    = regexp.MustCompile(`^/drive/folders/[^/]+.*`)
	driveUserFolderFormat = regexp.MustCompile(`^/drive/u/\d+/folders/[^/]+.*`)
	docsTypedPattern      = regexp.MustCompile(`^/(document|spreadsheets|presentation|forms)/d/[^/]+.*`)
)

// IsValidDriveLink reports whether link is an https URL on drive.google.com
// or docs.google.com with one of the known resource path shapes. It is a
// total predicate: any parse failure returns false.
func IsValidDriveLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return false
	}

	host := strings.ToLower(u.Hostname())
	path := u.Path
	query := u.RawQuery

	switch host {
	case "drive.google.com":
		if driveFilePattern.MatchString(path) ||
			driveFolderPattern.MatchString(path) ||
			driveUserFolderFormat.MatchString(path) {
			return true
		}
		// Legacy open/uc links carry the resource in the id query param.
		if (path == "/open" || path == "/uc") && strings.Contains(query, "id=") {
			return true
		}
		return false
	case "docs.google.com":
		return docsTypedPattern.MatchString(path)
	}

	return false
}
