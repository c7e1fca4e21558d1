package commands

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/susu3304/wageflow/internal/session"
)

var pinCost = bcrypt.DefaultCost

func HandleSetPIN(c *Context) {
	if _, ok := c.company(); !ok {
		return
	}
	c.Session.State = session.AwaitPIN
	c.reply("🔐 Set Your PIN\n\n" +
		"Please enter a 4-digit PIN to secure your account:\n\n" +
		"⚠️ This PIN will be required for sensitive operations like payments.")
}

func HandleChangePIN(c *Context) {
	if _, ok := c.company(); !ok {
		return
	}
	c.Session.State = session.AwaitNewPIN
	c.reply("🔐 Change Your PIN\n\n" +
		"Please enter your new 4-digit PIN:\n\n" +
		"⚠️ Make sure to remember this PIN!")
}

func handlePINEntry(c *Context) {
	if !isValidPIN(c.Text) {
		c.reply("❌ Invalid PIN. Please enter exactly 4 digits:")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Text), pinCost)
	if err != nil {
		log.Printf("commands: failed to hash pin: %v", err)
		c.reply("❌ Could not set your PIN. Please try again.")
		return
	}

	changed := c.Session.State == session.AwaitNewPIN
	c.Session.PinHash = string(hash)
	c.Session.PinVerified = false
	c.Session.Reset()

	if changed {
		c.reply("✅ PIN changed successfully!\n\n🔐 Your new PIN is now active.")
		return
	}
	c.reply("✅ PIN set successfully!\n\n" +
		"🔐 Your account is now secured.\n" +
		"You will need this PIN for sensitive operations.")
}

func checkPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
