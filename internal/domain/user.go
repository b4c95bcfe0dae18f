package domain

// UserType differentiates the two personas that can drive a session.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAgent    UserType = "agent"
)

// AgentRole enumerates support staff roles.
type AgentRole string

const (
	AgentRoleSupport AgentRole = "Support Agent"
	AgentRoleSenior  AgentRole = "Senior Agent"
)

// LoanRecord is one entry of a customer's loan history.
type LoanRecord struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Customer is an end-user who chats about loan applications.
type Customer struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	LoanHistory []LoanRecord `json:"loanHistory,omitempty"`
}

// Agent is a support operator working the ticket queue.
type Agent struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Role     AgentRole `json:"role"`
}

// User is the variant over Customer and Agent. Exactly one of the pointers is set,
// matching Type.
type User struct {
	Type     UserType  `json:"type"`
	Customer *Customer `json:"customer,omitempty"`
	Agent    *Agent    `json:"agent,omitempty"`
}

// CustomerUser wraps a customer as a User.
func CustomerUser(c Customer) User {
	return User{Type: UserTypeCustomer, Customer: &c}
}

// AgentUser wraps an agent as a User.
func AgentUser(a Agent) User {
	return User{Type: UserTypeAgent, Agent: &a}
}

// ID returns the identifier of whichever persona is set.
func (u User) ID() string {
	switch {
	case u.Type == UserTypeCustomer && u.Customer != nil:
		return u.Customer.ID
	case u.Type == UserTypeAgent && u.Agent != nil:
		return u.Agent.ID
	}
	return ""
}

// Name returns the display name of whichever persona is set.
func (u User) Name() string {
	switch {
	case u.Type == UserTypeCustomer && u.Customer != nil:
		return u.Customer.Name
	case u.Type == UserTypeAgent && u.Agent != nil:
		return u.Agent.Name
	}
	return ""
}
