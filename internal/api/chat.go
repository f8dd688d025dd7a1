package api

import (
	"context"
	"fmt"
	"net/http"

	"board-client/internal/models"
)

// JoinRoom registers the user as a member of the community's chat room.
func (c *Client) JoinRoom(ctx context.Context, communityID int) error {
	path := fmt.Sprintf("/api/chat-rooms/%d/join", communityID)
	return c.do(ctx, http.MethodPost, path, nil, nil, true)
}

// LeaveRoom removes the user's membership from the community's chat room.
func (c *Client) LeaveRoom(ctx context.Context, communityID int) error {
	path := fmt.Sprintf("/api/chat-rooms/%d/leave", communityID)
	return c.do(ctx, http.MethodPost, path, nil, nil, true)
}

// ChatHistory returns the room's prior messages in server order.
func (c *Client) ChatHistory(ctx context.Context, communityID int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	path := fmt.Sprintf("/api/chat/%d", communityID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages, false); err != nil {
		return nil, err
	}
	return messages, nil
}

// ChatParticipants returns the room's current roster; its length is the
// headcount shown on the panel.
func (c *Client) ChatParticipants(ctx context.Context, communityID int) ([]models.Participant, error) {
	var participants []models.Participant
	path := fmt.Sprintf("/api/chat/%d/participants", communityID)
	if err := c.do(ctx, http.MethodGet, path, nil, &participants, false); err != nil {
		return nil, err
	}
	return participants, nil
}

// MyChats lists the rooms the user participates in.
func (c *Client) MyChats(ctx context.Context) ([]models.RoomInfo, error) {
	var rooms []models.RoomInfo
	if err := c.doUnwrapped(ctx, http.MethodGet, "/api/chat/me/participant", nil, &rooms, true); err != nil {
		return nil, err
	}
	return rooms, nil
}
