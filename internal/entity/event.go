package entity

// Audience is the delivery scope of an outgoing event.
type Audience int

const (
	AudienceRequester Audience = iota
	AudienceSession
	AudienceOthers
)

func (a Audience) String() string {
	switch a {
	case AudienceRequester:
		return "requester"
	case AudienceSession:
		return "session"
	case AudienceOthers:
		return "others"
	default:
		return "unknown"
	}
}

// Outbound event names. "gameUpdataed" is the spelling clients listen for.
const (
	EventPlayerCreated = "playerCreated"
	EventGameUpdated   = "gameUpdataed"
	EventNotification  = "notification"
	EventGameEnd       = "gameEnd"
	EventNewMessage    = "new_msg"
	EventNewBroadcast  = "new_broad"
)

type Event struct {
	Audience  Audience
	SessionID string
	Name      string
	Payload   any
}

type PlayerPayload struct {
	Player *Player `json:"player"`
}

type GamePayload struct {
	Game *Game `json:"game"`
}

type NotificationPayload struct {
	Message string `json:"message"`
}

type GameEndPayload struct {
	Winner *Winner `json:"winner"`
}

func PlayerCreated(player *Player) Event {
	return Event{
		Audience: AudienceRequester,
		Name:     EventPlayerCreated,
		Payload:  PlayerPayload{Player: player.Clone()},
	}
}

// GameUpdated - snapshots the game so later mutation never leaks into the payload.
func GameUpdated(audience Audience, game *Game) Event {
	return Event{
		Audience:  audience,
		SessionID: game.ID,
		Name:      EventGameUpdated,
		Payload:   GamePayload{Game: game.Clone()},
	}
}

func Notification(audience Audience, sessionID, message string) Event {
	return Event{
		Audience:  audience,
		SessionID: sessionID,
		Name:      EventNotification,
		Payload:   NotificationPayload{Message: message},
	}
}

// GameEnd - a nil or draw winner goes out as null.
func GameEnd(sessionID string, winner *Winner) Event {
	payload := GameEndPayload{}
	if winner != nil && !winner.Draw {
		w := *winner
		w.Line = append([]int(nil), winner.Line...)
		w.Player = winner.Player.Clone()
		payload.Winner = &w
	}

	return Event{
		Audience:  AudienceSession,
		SessionID: sessionID,
		Name:      EventGameEnd,
		Payload:   payload,
	}
}
