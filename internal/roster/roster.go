package roster

import (
	"strings"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// Directory is the static identity roster. Identities are looked up, never created.
type Directory struct {
	customers []domain.Customer
	agents    []domain.Agent
}

// NewDirectory builds a directory over the given identities.
func NewDirectory(customers []domain.Customer, agents []domain.Agent) *Directory {
	return &Directory{customers: customers, agents: agents}
}

// Default returns the built-in KRUX Finance roster.
func Default() *Directory {
	return NewDirectory(defaultCustomers(), defaultAgents())
}

// Lookup matches an identifier against customer phones first, then agent usernames.
func (d *Directory) Lookup(identifier string) (domain.User, bool) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return domain.User{}, false
	}
	for _, c := range d.customers {
		if c.Phone == id {
			return domain.CustomerUser(c), true
		}
	}
	for _, a := range d.agents {
		if a.Username == id {
			return domain.AgentUser(a), true
		}
	}
	return domain.User{}, false
}

// Customer returns the customer with the given id.
func (d *Directory) Customer(id string) (domain.Customer, bool) {
	for _, c := range d.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// Agent returns the agent with the given id.
func (d *Directory) Agent(id string) (domain.Agent, bool) {
	for _, a := range d.agents {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Agent{}, false
}

// Resolve rebuilds a User from its type and id, as carried by session tokens.
func (d *Directory) Resolve(userType domain.UserType, id string) (domain.User, bool) {
	switch userType {
	case domain.UserTypeCustomer:
		if c, ok := d.Customer(id); ok {
			return domain.CustomerUser(c), true
		}
	case domain.UserTypeAgent:
		if a, ok := d.Agent(id); ok {
			return domain.AgentUser(a), true
		}
	}
	return domain.User{}, false
}

func defaultCustomers() []domain.Customer {
	return []domain.Customer{
		{
			ID:    "cust-1",
			Name:  "Rahul Sharma",
			Phone: "+919876543210",
			LoanHistory: []domain.LoanRecord{
				{ID: "KRUX12345", Type: "Personal Loan", Status: "Under Review"},
			},
		},
		{
			ID:    "cust-2",
			Name:  "Priya Patel",
			Phone: "+919876543211",
			LoanHistory: []domain.LoanRecord{
				{ID: "KRUX67890", Type: "Business Loan", Status: "Approved"},
			},
		},
	}
}

func defaultAgents() []domain.Agent {
	return []domain.Agent{
		{ID: "agent-1", Name: "Amit Kumar", Username: "amit.kumar", Role: domain.AgentRoleSupport},
		{ID: "agent-2", Name: "Sneha Singh", Username: "sneha.singh", Role: domain.AgentRoleSenior},
	}
}

// QuickReplies are the canned replies offered to agents.
var QuickReplies = []string{
	"Hello! How can I assist you with your loan application today?",
	"Could you please provide your Application ID so I can check the status for you?",
	"Thank you for providing the details. Please allow me a moment to review your case.",
	"Is there anything else I can help you with today?",
}
