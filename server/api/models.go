package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received
// from and sent to the client.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server   string `json:"server"`
		Compiler string `json:"compiler"`
	} `json:"version"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLoginTime  string `json:"last_login_time,omitempty"`
	LastLogoutTime string `json:"last_logout_time,omitempty"`
}

type UserUpdateRequest struct {
	ID       UpdateString `json:"id,omitempty"`
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Email    UpdateString `json:"email,omitempty"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

// CompilationRequest asks for a stored requirement to be recompiled. Target
// optionally selects a different monitor target; if blank the requirement's
// stored target is used.
type CompilationRequest struct {
	Target string `json:"target,omitempty"`
}

// RequirementModel is the client-facing form of a cataloged requirement.
// Compiled is the base64 encoding of the binary monitor spec produced for
// Target.
type RequirementModel struct {
	URI      string `json:"uri"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Formula  string `json:"formula,omitempty"`
	Target   string `json:"target,omitempty"`
	Compiled string `json:"compiled,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}
