package protocol

// Outbound frame type tags.
const (
	FrameWelcome          = "welcome"
	FrameNameSet          = "nameSet"
	FrameRoomCreated      = "roomCreated"
	FrameRoomJoined       = "roomJoined"
	FrameLeftRoom         = "leftRoom"
	FrameRoomList         = "roomList"
	FramePlayerJoined     = "playerJoined"
	FramePlayerLeft       = "playerLeft"
	FramePlayerReady      = "playerReady"
	FrameBecameHost       = "becameHost"
	FrameGameStart        = "gameStart"
	FrameGameState        = "gameState"
	FramePhaseUpdate      = "phaseUpdate"
	FrameRoundStart       = "roundStart"
	FrameCombatStart      = "combatStart"
	FrameCombatBatch      = "combatEventsBatch"
	FrameScoutStart       = "scoutCombatEvents"
	FrameScoutBatch       = "scoutCombatEventsBatch"
	FrameCombatEnd        = "combatEnd"
	FrameMerchantStart    = "merchantStart"
	FrameMerchantPick     = "merchantPick"
	FrameMerchantTurn     = "merchantTurnUpdate"
	FrameMerchantEnd      = "merchantEnd"
	FrameMajorCrestStart  = "majorCrestStart"
	FrameMajorCrestSelect = "majorCrestSelect"
	FrameMajorCrestEnd    = "majorCrestEnd"
	FrameActionResult     = "actionResult"
	FrameGameEnd          = "gameEnd"
	FrameChat             = "chat"
	FrameError            = "error"
)

// EventBatchSize caps how many combat events ride in one frame. A
// transport tunable: some client JSON parsers choke on oversized frames.
const EventBatchSize = 50

// Welcome greets a fresh connection with its stable client id and a
// resume ticket for reclaiming it later.
type Welcome struct {
	Type        string `json:"type"`
	ClientID    string `json:"clientId"`
	ResumeToken string `json:"resumeToken,omitempty"`
}

// NameSet confirms a setName.
type NameSet struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// RoomCreated confirms a createRoom to its creator.
type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// RoomJoined confirms a join and carries the current seat list.
type RoomJoined struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	HostID  string `json:"hostId"`
	Players any    `json:"players"`
}

// LeftRoom confirms a leaveRoom.
type LeftRoom struct {
	Type string `json:"type"`
}

// RoomList answers a listRooms.
type RoomList struct {
	Type  string `json:"type"`
	Rooms any    `json:"rooms"`
}

// PlayerJoined announces a new seat to the rest of the room.
type PlayerJoined struct {
	Type   string `json:"type"`
	Player any    `json:"player"`
}

// PlayerLeft announces a departure.
type PlayerLeft struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// PlayerReady announces a ready toggle.
type PlayerReady struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Ready    bool   `json:"ready"`
}

// BecameHost announces a host reassignment.
type BecameHost struct {
	Type   string `json:"type"`
	HostID string `json:"hostId"`
}

// GameStart announces the game beginning.
type GameStart struct {
	Type string `json:"type"`
}

// GameState carries a full state snapshot.
type GameState struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// PhaseUpdate announces a phase transition with its timer in seconds.
type PhaseUpdate struct {
	Type  string  `json:"type"`
	Phase string  `json:"phase"`
	Timer float64 `json:"timer"`
	Round int     `json:"round"`
}

// RoundStart announces a new round and its scheduled type.
type RoundStart struct {
	Type      string `json:"type"`
	Round     int    `json:"round"`
	RoundType string `json:"roundType"`
}

// CombatStart opens a combat event stream with the first batch inline.
type CombatStart struct {
	Type         string `json:"type"`
	Round        int    `json:"round"`
	Matchups     any    `json:"matchups"`
	CombatEvents any    `json:"combatEvents"`
	MyTeam       any    `json:"myTeam"`
	OpponentTeam any    `json:"opponentTeam"`
	TotalEvents  int    `json:"totalEvents"`
	BatchIndex   int    `json:"batchIndex"`
}

// CombatEventsBatch streams a follow-up slice of combat events.
type CombatEventsBatch struct {
	Type         string `json:"type"`
	Round        int    `json:"round"`
	CombatEvents any    `json:"combatEvents"`
	BatchIndex   int    `json:"batchIndex"`
	IsLast       bool   `json:"isLast"`
}

// ScoutCombatStart opens a spectator stream for another matchup.
type ScoutCombatStart struct {
	Type         string `json:"type"`
	Round        int    `json:"round"`
	MatchupID    string `json:"matchupId"`
	CombatEvents any    `json:"combatEvents"`
	TotalEvents  int    `json:"totalEvents"`
	BatchIndex   int    `json:"batchIndex"`
}

// ScoutCombatBatch streams follow-up spectator events.
type ScoutCombatBatch struct {
	Type         string `json:"type"`
	Round        int    `json:"round"`
	MatchupID    string `json:"matchupId"`
	CombatEvents any    `json:"combatEvents"`
	BatchIndex   int    `json:"batchIndex"`
	IsLast       bool   `json:"isLast"`
}

// CombatEnd carries the per-matchup results of a combat round.
type CombatEnd struct {
	Type    string `json:"type"`
	Round   int    `json:"round"`
	Results any    `json:"results"`
}

// MerchantStart opens a mad-merchant round.
type MerchantStart struct {
	Type          string  `json:"type"`
	Options       any     `json:"options"`
	PickOrder     any     `json:"pickOrder"`
	CurrentPicker string  `json:"currentPicker"`
	Timer         float64 `json:"timer"`
}

// MerchantPick announces a resolved pick.
type MerchantPick struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	OptionID string `json:"optionId"`
	Option   any    `json:"option"`
}

// MerchantTurnUpdate advances the draft to the next picker.
type MerchantTurnUpdate struct {
	Type          string  `json:"type"`
	CurrentPicker string  `json:"currentPicker"`
	Timer         float64 `json:"timer"`
}

// MerchantEnd closes the merchant round.
type MerchantEnd struct {
	Type string `json:"type"`
}

// MajorCrestStart opens a major-crest round with the actor's choices.
type MajorCrestStart struct {
	Type    string  `json:"type"`
	Options any     `json:"options"`
	Timer   float64 `json:"timer"`
}

// MajorCrestSelect announces a player's major-crest pick.
type MajorCrestSelect struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	CrestID  string `json:"crestId"`
}

// MajorCrestEnd closes the major-crest round.
type MajorCrestEnd struct {
	Type string `json:"type"`
}

// ActionResult answers an in-game action. Detail carries action-specific
// payload such as the merged unit of a buy.
type ActionResult struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

// GameEnd announces the winner.
type GameEnd struct {
	Type       string `json:"type"`
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
}

// Chat relays a lobby or in-game chat line.
type Chat struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

// Error reports a validation or routing failure to one client.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorFrame builds an error frame from a message.
func ErrorFrame(message string) Error {
	return Error{Type: FrameError, Message: message}
}
