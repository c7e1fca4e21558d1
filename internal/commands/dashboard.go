package commands

import (
	"fmt"
	"log"
)

func HandleDashboard(c *Context) {
	company, ok := c.company()
	if !ok {
		return
	}
	if c.Deps.IssueToken == nil {
		c.reply("The dashboard is not enabled.")
		return
	}

	token, expires, err := c.Deps.IssueToken(company.ID)
	if err != nil {
		log.Printf("commands: failed to issue dashboard token for company %d: %v", company.ID, err)
		c.reply("❌ Could not create a dashboard token. Please try again.")
		return
	}

	c.reply(fmt.Sprintf("🔑 Dashboard token for %s\n", company.Name) +
		fmt.Sprintf("Valid until %s\n\n", expires.UTC().Format("Jan 2, 2006 15:04 MST")) +
		token + "\n\n" +
		"Endpoints:\n" +
		c.Deps.DashboardURL + "/api/employees\n" +
		c.Deps.DashboardURL + "/api/payments\n\n" +
		"Send it as: Authorization: Bearer <token>")
}
