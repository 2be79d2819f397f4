package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string              `json:"name" validate:"required,min=1,max=100"`
	Description *string             `json:"description,omitempty"`
	Members     []*AddMemberRequest `json:"members,omitempty"`
}

// AddMemberRequest represents the request to add a member to a group.
// When MemberID is empty a new id is generated.
type AddMemberRequest struct {
	MemberID    string `json:"member_id,omitempty" validate:"omitempty,max=64"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	JoinedAt    string `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		MemberID:    m.MemberID,
		DisplayName: m.DisplayName,
		JoinedAt:    m.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// WithMembers attaches members to a group response
func (r *GroupResponse) WithMembers(members []*Member) *GroupResponse {
	r.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		r.Members[i] = m.ToResponse()
	}
	return r
}
