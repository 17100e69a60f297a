package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:topic", websocket.New(func(c *websocket.Conn) {
		topic := c.Params("topic")
		client := hub.Register(topic)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		// Unregister closes Send, which ends the writer goroutine.
		hub.Unregister(client)
		<-done
	}))
}
