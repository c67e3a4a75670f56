package accesskit

// DirectoryFilter provides options for filtering directory listings of roles
// and permissions. Column filters match exactly; Name and Description match
// as substrings against the current localized attribute rows for the filter
// language.
//
// Pagination is all-or-nothing: set both Page and PageSize to page, leave
// both zero to fetch everything. Setting only one is a validation error.
type DirectoryFilter struct {
	// Exact-match column filters
	ID         string
	Serial     string
	Identifier string

	// Substring filters against localized attributes
	Name        string
	Description string

	// Language the substring filters (and the resolved display columns)
	// are evaluated in
	Language string

	// Tri-state enabled filter: nil means both
	Enabled *bool

	// Restrict to roles owned by a host (ignored for permissions)
	HostType string
	HostID   string

	// Pagination, 1-based
	Page     int
	PageSize int
}

// NewDirectoryFilter creates a new DirectoryFilter with default values.
func NewDirectoryFilter() DirectoryFilter {
	return DirectoryFilter{
		Language: DefaultLanguage,
	}
}

// WithID sets the exact id filter.
func (f DirectoryFilter) WithID(id string) DirectoryFilter {
	f.ID = id
	return f
}

// WithSerial sets the exact serial filter.
func (f DirectoryFilter) WithSerial(serial string) DirectoryFilter {
	f.Serial = serial
	return f
}

// WithIdentifier sets the exact identifier filter.
func (f DirectoryFilter) WithIdentifier(identifier string) DirectoryFilter {
	f.Identifier = identifier
	return f
}

// WithName sets the localized name substring filter.
func (f DirectoryFilter) WithName(name string) DirectoryFilter {
	f.Name = name
	return f
}

// WithDescription sets the localized description substring filter.
func (f DirectoryFilter) WithDescription(description string) DirectoryFilter {
	f.Description = description
	return f
}

// WithLanguage sets the language the listing resolves display values in.
func (f DirectoryFilter) WithLanguage(code string) DirectoryFilter {
	f.Language = code
	return f
}

// WithEnabled restricts the listing to enabled or disabled entities.
func (f DirectoryFilter) WithEnabled(enabled bool) DirectoryFilter {
	f.Enabled = &enabled
	return f
}

// WithHost restricts the listing to roles owned by the host.
func (f DirectoryFilter) WithHost(hostType, hostID string) DirectoryFilter {
	f.HostType = hostType
	f.HostID = hostID
	return f
}

// WithPagination sets both page (1-based) and page size.
func (f DirectoryFilter) WithPagination(page, pageSize int) DirectoryFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// paginated reports whether the filter requests pagination, erroring when
// only one of the two knobs is set.
func (f DirectoryFilter) paginated() (bool, error) {
	if (f.Page == 0) != (f.PageSize == 0) {
		return false, NewError(ErrValidation, "pagination requires both page and page size")
	}
	if f.Page < 0 || f.PageSize < 0 {
		return false, NewError(ErrValidation, "pagination values must be positive")
	}
	return f.Page > 0, nil
}
