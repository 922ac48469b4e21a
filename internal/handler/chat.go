package handler

import (
	"encoding/json"
	"time"

	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/world"
)

// Chat channels and rejection reasons.
const (
	ChanMap     = "map"
	ChanGlobal  = "global"
	ChanWhisper = "whisper"

	ChatErrTooLong       = "too_long"
	ChatErrEmpty         = "empty"
	ChatErrBadChannel    = "unknown_channel"
	ChatErrTownOnly      = "town_only"
	ChatErrUnknownTarget = "unknown_target"
)

// HandleSendChat routes a chat message: map channel to the sender's map,
// global channel world-wide (only from inside a safe-zone town), whisper to
// one named player. Each channel has its own spam window.
func HandleSendChat(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil {
		return
	}
	var req ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	if req.Message == "" {
		p.Send(EvChatError, ChatErrorPayload{Reason: ChatErrEmpty})
		return
	}
	if len(req.Message) > deps.Config.Chat.MaxLength {
		p.Send(EvChatError, ChatErrorPayload{Reason: ChatErrTooLong})
		return
	}

	var cooldown time.Duration
	switch req.Channel {
	case ChanMap:
		cooldown = deps.Config.Chat.LocalCooldown
	case ChanGlobal:
		cooldown = deps.Config.Chat.GlobalCooldown
	case ChanWhisper:
		cooldown = deps.Config.Chat.WhisperCooldown
	default:
		p.Send(EvChatError, ChatErrorPayload{Reason: ChatErrBadChannel})
		return
	}

	if req.Channel == ChanGlobal {
		info := deps.Maps.Get(p.MapID)
		if info == nil || !info.SafeZone {
			p.Send(EvChatError, ChatErrorPayload{Reason: ChatErrTownOnly})
			return
		}
	}

	now := time.Now()
	if last, ok := p.ChatLast[req.Channel]; ok {
		if wait := cooldown - now.Sub(last); wait > 0 {
			p.Send(EvChatSpamBlocked, ChatBlockedPayload{
				Channel: req.Channel,
				RetryMs: wait.Milliseconds(),
			})
			return
		}
	}
	p.ChatLast[req.Channel] = now

	msg := ChatPayload{
		From:    p.ID,
		Name:    p.Name,
		Channel: req.Channel,
		Message: req.Message,
	}

	switch req.Channel {
	case ChanMap:
		BroadcastToMap(deps, p.MapID, EvChatMessage, msg)
	case ChanGlobal:
		deps.World.OnlinePlayers(func(other *world.PlayerInfo) {
			other.Send(EvChatMessage, msg)
		})
	case ChanWhisper:
		target := deps.World.GetPlayer(req.TargetID)
		if target == nil || !target.Connected() {
			p.Send(EvChatError, ChatErrorPayload{Reason: ChatErrUnknownTarget})
			return
		}
		target.Send(EvChatMessage, msg)
		p.Send(EvChatMessage, msg)
	}
}
