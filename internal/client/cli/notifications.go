package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentlink/talentlink-client/internal/client/models"
)

// Status prints the current session identity and stream state.
func (a *App) Status(ctx context.Context) error {
	if u := a.session.CurrentUser(); u != nil {
		printlnFn(fmt.Sprintf("Logged in as %s (%s)", u.Email, a.session.UserType()))
	} else {
		printlnFn("Not logged in")
	}
	printlnFn("Stream:", a.stream.State().String())
	printlnFn(fmt.Sprintf("Inbox: %d unread", a.stream.Inbox().UnreadCount()))
	return nil
}

// List prints the inbox, newest first.
func (a *App) List(ctx context.Context) error {
	items := a.stream.Inbox().Notifications()
	if len(items) == 0 {
		printlnFn("Inbox is empty")
		return nil
	}
	for _, n := range items {
		marker := "*"
		if n.Read {
			marker = " "
		}
		topic := n.Topic
		if topic == "" {
			topic = "-"
		}
		printlnFn(fmt.Sprintf("%s %s  [%s]  %s  (%s)", marker, n.ID, topic, n.Message,
			n.ReceivedAt.Format("15:04:05")))
	}
	return nil
}

// Read marks a single notification as read.
func (a *App) Read(ctx context.Context, id string) error {
	if !a.stream.Inbox().MarkRead(id) {
		printlnFn("No notification with id", id)
	}
	return nil
}

// ReadAll marks every notification as read.
func (a *App) ReadAll(ctx context.Context) error {
	a.stream.Inbox().MarkAllRead()
	return nil
}

// ClearInbox drops all notifications.
func (a *App) ClearInbox(ctx context.Context) error {
	a.stream.Inbox().Clear()
	return nil
}

// Sub subscribes to a named topic; its messages bypass the inbox and print
// immediately.
func (a *App) Sub(ctx context.Context, topic string) error {
	if _, ok := a.subs[topic]; ok {
		printlnFn("Already subscribed to", topic)
		return nil
	}
	a.subs[topic] = a.stream.Subscribe(topic, func(msg models.StreamMessage) {
		printlnFn(fmt.Sprintf("\n[%s] %s", msg.Topic, msg.Message))
	})
	printlnFn("Subscribed to", topic)
	return nil
}

// Unsub removes a topic subscription created with Sub.
func (a *App) Unsub(ctx context.Context, topic string) error {
	unsub, ok := a.subs[topic]
	if !ok {
		printlnFn("Not subscribed to", topic)
		return nil
	}
	unsub()
	delete(a.subs, topic)
	printlnFn("Unsubscribed from", topic)
	return nil
}

// Topics lists the active topic subscriptions.
func (a *App) Topics(ctx context.Context) error {
	topics := a.stream.ActiveTopics()
	if len(topics) == 0 {
		printlnFn("No active subscriptions")
		return nil
	}
	printlnFn("Subscribed:", strings.Join(topics, ", "))
	return nil
}
