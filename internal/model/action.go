package model

import "time"

// Role qualifies a relationship with a name and a period, such as a seat
// held on a committee. Its identifier is derived from its content.
type Role struct {
	Thing

	RoleName  string
	StartDate *time.Time
	EndDate   *time.Time
}

// RoleLike is any entity of the Role subtree.
type RoleLike interface {
	ThingLike
	role() *Role
}

func (r *Role) role() *Role { return r }

func roleFields() []Field {
	return []Field{
		required("roleName", stringCodec, func(e RoleLike) *string { return &e.role().RoleName }),
		optional("startDate", dateCodec, func(e RoleLike) **time.Time { return &e.role().StartDate }),
		optional("endDate", dateCodec, func(e RoleLike) **time.Time { return &e.role().EndDate }),
	}
}

// OrganizationRole is a Role within an organization, with a seat number.
type OrganizationRole struct {
	Role

	NumberedPosition *float64
}

func organizationRoleFields() []Field {
	return []Field{
		optional("numberedPosition", floatCodec, func(e *OrganizationRole) **float64 { return &e.NumberedPosition }),
	}
}

// Action is something done by an agent, such as a motion or a vote.
type Action struct {
	Thing

	Agent     []ThingStubLike
	Object    []ThingStubLike
	StartTime *time.Time
	EndTime   *time.Time
}

// ActionLike is any entity of the Action subtree.
type ActionLike interface {
	ThingLike
	action() *Action
}

func (a *Action) action() *Action { return a }

func actionFields() []Field {
	return []Field{
		list("agent", polymorphic[ThingStubLike](ThingStubKind), func(e ActionLike) *[]ThingStubLike { return &e.action().Agent }),
		list("object", polymorphic[ThingStubLike](ThingStubKind), func(e ActionLike) *[]ThingStubLike { return &e.action().Object }),
		optional("startTime", dateTimeCodec, func(e ActionLike) **time.Time { return &e.action().StartTime }),
		optional("endTime", dateTimeCodec, func(e ActionLike) **time.Time { return &e.action().EndTime }),
	}
}

// AssessAction is an action that forms a judgement. It adds no fields.
type AssessAction struct {
	Action
}

// ChooseAction is an assessment that picks among options.
type ChooseAction struct {
	AssessAction

	ActionOptions []string
}

// ChooseActionLike is any entity of the ChooseAction subtree.
type ChooseActionLike interface {
	ActionLike
	chooseAction() *ChooseAction
}

func (c *ChooseAction) chooseAction() *ChooseAction { return c }

func chooseActionFields() []Field {
	return []Field{
		list("actionOption", stringCodec, func(e ChooseActionLike) *[]string { return &e.chooseAction().ActionOptions }),
	}
}

// VoteAction is a vote cast for candidates.
type VoteAction struct {
	ChooseAction

	Candidates []*PersonStub
}

func voteActionFields() []Field {
	return []Field{
		list("candidate", embedded[*PersonStub](PersonStubKind), func(e *VoteAction) *[]*PersonStub { return &e.Candidates }),
	}
}
