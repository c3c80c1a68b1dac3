// Package protocol defines the JSON frames exchanged with clients. The
// inbound side is a tagged union keyed by "type"; unknown types are
// rejected. Outbound frames are flat structs carrying their own type tag.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message types.
const (
	MsgSetName    = "setName"
	MsgCreateRoom = "createRoom"
	MsgJoinRoom   = "joinRoom"
	MsgLeaveRoom  = "leaveRoom"
	MsgListRooms  = "listRooms"
	MsgReady      = "ready"
	MsgChat       = "chat"
	MsgAction     = "action"
)

// Action types nested inside an action frame.
const (
	ActBuyUnit           = "buyUnit"
	ActSellUnit          = "sellUnit"
	ActPlaceUnit         = "placeUnit"
	ActBenchUnit         = "benchUnit"
	ActMoveBenchUnit     = "moveBenchUnit"
	ActReroll            = "reroll"
	ActBuyXP             = "buyXP"
	ActToggleShopLock    = "toggleShopLock"
	ActReady             = "ready"
	ActCollectLoot       = "collectLoot"
	ActEquipItem         = "equipItem"
	ActUnequipItem       = "unequipItem"
	ActCombineItems      = "combineItems"
	ActUseConsumable     = "useConsumable"
	ActSelectCrestChoice = "selectCrestChoice"
	ActSelectItemChoice  = "selectItemChoice"
	ActReplaceCrest      = "replaceCrest"
	ActSelectMinorCrest  = "selectMinorCrest"
	ActSelectMajorCrest  = "selectMajorCrest"
	ActMerchantPick      = "merchantPick"
)

// ErrUnknownType rejects frames whose type tag matches nothing we speak.
var ErrUnknownType = errors.New("unknown message type")

// Inbound is one decoded client frame. Only the fields for its Type are
// meaningful.
type Inbound struct {
	Type    string  `json:"type"`
	Name    string  `json:"name,omitempty"`
	RoomID  string  `json:"roomId,omitempty"`
	Ready   bool    `json:"ready,omitempty"`
	Message string  `json:"message,omitempty"`
	Action  *Action `json:"action,omitempty"`
}

// Action is the nested in-game action union. TargetSlot is a pointer so
// benchUnit can distinguish "first free slot" from slot zero.
type Action struct {
	Type         string `json:"type"`
	ShopIndex    int    `json:"shopIndex,omitempty"`
	InstanceID   string `json:"instanceId,omitempty"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	TargetSlot   *int   `json:"targetSlot,omitempty"`
	Ready        bool   `json:"ready,omitempty"`
	LootID       string `json:"lootId,omitempty"`
	ItemIndex    int    `json:"itemIndex,omitempty"`
	ItemIndex1   int    `json:"itemIndex1,omitempty"`
	ItemIndex2   int    `json:"itemIndex2,omitempty"`
	ItemSlot     int    `json:"itemSlot,omitempty"`
	ChoiceIndex  int    `json:"choiceIndex,omitempty"`
	ReplaceIndex int    `json:"replaceIndex,omitempty"`
	CrestID      string `json:"crestId,omitempty"`
	OptionID     string `json:"optionId,omitempty"`
}

var inboundTypes = map[string]bool{
	MsgSetName:    true,
	MsgCreateRoom: true,
	MsgJoinRoom:   true,
	MsgLeaveRoom:  true,
	MsgListRooms:  true,
	MsgReady:      true,
	MsgChat:       true,
	MsgAction:     true,
}

var actionTypes = map[string]bool{
	ActBuyUnit:           true,
	ActSellUnit:          true,
	ActPlaceUnit:         true,
	ActBenchUnit:         true,
	ActMoveBenchUnit:     true,
	ActReroll:            true,
	ActBuyXP:             true,
	ActToggleShopLock:    true,
	ActReady:             true,
	ActCollectLoot:       true,
	ActEquipItem:         true,
	ActUnequipItem:       true,
	ActCombineItems:      true,
	ActUseConsumable:     true,
	ActSelectCrestChoice: true,
	ActSelectItemChoice:  true,
	ActReplaceCrest:      true,
	ActSelectMinorCrest:  true,
	ActSelectMajorCrest:  true,
	ActMerchantPick:      true,
}

// Decode parses one inbound frame, rejecting unknown message and action
// types.
func Decode(data []byte) (*Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if !inboundTypes[msg.Type] {
		return nil, ErrUnknownType
	}
	if msg.Type == MsgAction {
		if msg.Action == nil || !actionTypes[msg.Action.Type] {
			return nil, ErrUnknownType
		}
	}
	return &msg, nil
}
