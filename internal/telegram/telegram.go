// Package telegram delivers composed digests to a Telegram chat, splitting
// messages that exceed the Bot API length ceiling.
package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLength = 4096
	lengthMargin     = 200 // headroom for the part header

	sendPause = time.Second // between parts, to respect rate limits
)

// Sender is the part of the Bot API the client needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client sends messages to one chat.
type Client struct {
	bot    Sender
	chatID int64

	// sleep is stubbed in tests.
	sleep func(time.Duration)
}

// New creates a delivery client for the given chat.
func New(bot Sender, chatID int64) *Client {
	return &Client{
		bot:    bot,
		chatID: chatID,
		sleep:  time.Sleep,
	}
}

// Send delivers one message. A non-nil error means the endpoint did not
// accept it.
func (c *Client) Send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendDigest delivers a digest, splitting it on line boundaries when it
// exceeds the message ceiling. Every part must be accepted; the first
// rejected part fails the whole digest.
func (c *Client) SendDigest(text string) error {
	if len(text) <= maxMessageLength {
		return c.Send(text)
	}

	parts := splitDigest(text)
	for i, part := range parts {
		if i > 0 {
			c.sleep(sendPause)
		}

		msg := part
		if len(parts) > 1 {
			msg = fmt.Sprintf("📋 *Digest (%d/%d)*\n\n", i+1, len(parts)) + part
		}

		if err := c.Send(msg); err != nil {
			return fmt.Errorf("part %d/%d: %w", i+1, len(parts), err)
		}
	}

	return nil
}

// splitDigest breaks a digest into parts of at most the content budget,
// cutting only on line boundaries. A single line longer than the budget is
// hard-truncated with an ellipsis and becomes its own part.
func splitDigest(text string) []string {
	limit := maxMessageLength - lengthMargin

	var parts []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if len(line)+1 > limit {
			if current != "" {
				parts = append(parts, strings.TrimSpace(current))
				current = ""
			}
			parts = append(parts, truncateLine(line, limit)+"...")
			continue
		}

		candidate := current + line + "\n"
		if len(candidate) > limit {
			parts = append(parts, strings.TrimSpace(current))
			current = line + "\n"
		} else {
			current = candidate
		}
	}

	if strings.TrimSpace(current) != "" {
		parts = append(parts, strings.TrimSpace(current))
	}

	return parts
}

// truncateLine cuts a line to at most limit bytes without splitting a rune.
func truncateLine(line string, limit int) string {
	if len(line) <= limit {
		return line
	}
	for limit > 0 && !utf8.RuneStart(line[limit]) {
		limit--
	}
	return line[:limit]
}
