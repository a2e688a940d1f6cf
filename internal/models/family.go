package models

// Family is the REST API generation bound for a session
type Family string

const (
	FamilyUnknown Family = ""
	FamilyCloud   Family = "v3"
	FamilyServer  Family = "v2"
)

// Number returns the version segment used in /rest/api/{n}/ paths
func (f Family) Number() string {
	switch f {
	case FamilyServer:
		return "2"
	default:
		return "3"
	}
}

// Alternate returns the other family
func (f Family) Alternate() Family {
	if f == FamilyServer {
		return FamilyCloud
	}
	return FamilyServer
}

// APIPath builds /rest/api/{n}/{resource}
func (f Family) APIPath(resource string) string {
	return "/rest/api/" + f.Number() + "/" + resource
}

func (f Family) String() string {
	switch f {
	case FamilyCloud:
		return "Cloud (API v3)"
	case FamilyServer:
		return "Server/Data Center (API v2)"
	default:
		return "unknown"
	}
}
