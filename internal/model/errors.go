package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind groups error codes by how callers should treat them
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"     // Malformed or illegal action
	KindGameState     ErrorKind = "game_state"     // Missing documents, wrong status, wrong turn
	KindRuleViolation ErrorKind = "rule_violation" // Conflicting effects, illegal stacking
	KindResource      ErrorKind = "resource"       // Deck exhausted
	KindInternal      ErrorKind = "internal"       // Anything unexpected
)

// ErrorCode is a wire-stable error identifier
type ErrorCode string

const (
	CodeInvalidCardIndex    ErrorCode = "INVALID_CARD_INDEX"
	CodeCardNotPlayable     ErrorCode = "CARD_NOT_PLAYABLE"
	CodeWildColorRequired   ErrorCode = "WILD_COLOR_REQUIRED"
	CodeInvalidColor        ErrorCode = "INVALID_COLOR"
	CodeInvalidDrawCount    ErrorCode = "INVALID_DRAW_COUNT"
	CodeInvalidAction       ErrorCode = "INVALID_ACTION"
	CodeInvalidConfig       ErrorCode = "INVALID_CONFIG"
	CodeUnknownBotStrategy  ErrorCode = "UNKNOWN_BOT_STRATEGY"
	CodeWildDrawFourIllegal ErrorCode = "WILD_DRAW_FOUR_ILLEGAL"
	CodeMustDrawPenalty     ErrorCode = "MUST_DRAW_PENALTY"
	CodeAlreadyDrew         ErrorCode = "ALREADY_DREW"
	CodeGameNotFound        ErrorCode = "GAME_NOT_FOUND"
	CodePlayerNotFound      ErrorCode = "PLAYER_NOT_FOUND"
	CodeHandNotFound        ErrorCode = "HAND_NOT_FOUND"
	CodeResultNotFound      ErrorCode = "RESULT_NOT_FOUND"
	CodeStatsNotFound       ErrorCode = "STATS_NOT_FOUND"
	CodeGameNotInProgress   ErrorCode = "GAME_NOT_IN_PROGRESS"
	CodeGameNotWaiting      ErrorCode = "GAME_NOT_WAITING"
	CodeNotYourTurn         ErrorCode = "NOT_YOUR_TURN"
	CodeGameFull            ErrorCode = "GAME_FULL"
	CodeAlreadyJoined       ErrorCode = "ALREADY_JOINED"
	CodeInsufficientPlayers ErrorCode = "INSUFFICIENT_PLAYERS"
	CodeNotHost             ErrorCode = "NOT_HOST"
	CodeUnoNotApplicable    ErrorCode = "UNO_NOT_APPLICABLE"
	CodeEffectConflict      ErrorCode = "EFFECT_CONFLICT"
	CodeIllegalStacking     ErrorCode = "ILLEGAL_STACKING"
	CodeUnknownEffectField  ErrorCode = "UNKNOWN_EFFECT_FIELD"
	CodeNotEnoughCards      ErrorCode = "NOT_ENOUGH_CARDS"
	CodeTransactionConflict ErrorCode = "TRANSACTION_CONFLICT"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error is the single error type raised by the rule engine and the services above it.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Details map[string]any
	Cause   error
}

func newError(kind ErrorKind, code ErrorCode, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Error implements error
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of e with details merged in
func (e *Error) WithDetails(details map[string]any) *Error {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		out.Details[k] = v
	}
	for k, v := range details {
		out.Details[k] = v
	}
	return &out
}

// WithMessage returns a copy of e with a more specific message
func (e *Error) WithMessage(format string, args ...any) *Error {
	out := *e
	out.Message = fmt.Sprintf(format, args...)
	return &out
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

// Sentinel errors, one per code. Never mutate these; use WithDetails/WithMessage/Wrap.
var (
	// Validation errors
	ErrInvalidCardIndex    = newError(KindValidation, CodeInvalidCardIndex, "card index out of range")
	ErrCardNotPlayable     = newError(KindValidation, CodeCardNotPlayable, "card cannot be played on the current discard")
	ErrWildColorRequired   = newError(KindValidation, CodeWildColorRequired, "wild cards require a chosen color")
	ErrInvalidColor        = newError(KindValidation, CodeInvalidColor, "invalid color")
	ErrInvalidDrawCount    = newError(KindValidation, CodeInvalidDrawCount, "invalid draw count")
	ErrInvalidAction       = newError(KindValidation, CodeInvalidAction, "invalid action")
	ErrInvalidConfig       = newError(KindValidation, CodeInvalidConfig, "invalid game configuration")
	ErrUnknownBotStrategy  = newError(KindValidation, CodeUnknownBotStrategy, "unknown bot strategy")
	ErrWildDrawFourIllegal = newError(KindValidation, CodeWildDrawFourIllegal, "wild draw four cannot be played while holding a card of the active color")
	ErrMustDrawPenalty     = newError(KindValidation, CodeMustDrawPenalty, "player must draw the pending penalty")
	ErrAlreadyDrew         = newError(KindValidation, CodeAlreadyDrew, "player already drew this turn and must play or pass")

	// Game state errors
	ErrGameNotFound        = newError(KindGameState, CodeGameNotFound, "game not found")
	ErrPlayerNotFound      = newError(KindGameState, CodePlayerNotFound, "player not found")
	ErrHandNotFound        = newError(KindGameState, CodeHandNotFound, "hand not found")
	ErrResultNotFound      = newError(KindGameState, CodeResultNotFound, "game result not found")
	ErrStatsNotFound       = newError(KindGameState, CodeStatsNotFound, "player stats not found")
	ErrGameNotInProgress   = newError(KindGameState, CodeGameNotInProgress, "game is not in progress")
	ErrGameNotWaiting      = newError(KindGameState, CodeGameNotWaiting, "game is not waiting for players")
	ErrNotYourTurn         = newError(KindGameState, CodeNotYourTurn, "not this player's turn")
	ErrGameFull            = newError(KindGameState, CodeGameFull, "game is full")
	ErrAlreadyJoined       = newError(KindGameState, CodeAlreadyJoined, "player has already joined")
	ErrInsufficientPlayers = newError(KindGameState, CodeInsufficientPlayers, "insufficient players to start game")
	ErrNotHost             = newError(KindGameState, CodeNotHost, "player is not the host")
	ErrUnoNotApplicable    = newError(KindGameState, CodeUnoNotApplicable, "uno cannot be called or challenged now")

	// Rule violations
	ErrEffectConflict     = newError(KindRuleViolation, CodeEffectConflict, "rules produced conflicting effects")
	ErrIllegalStacking    = newError(KindRuleViolation, CodeIllegalStacking, "only draw cards can be stacked on a pending penalty")
	ErrUnknownEffectField = newError(KindRuleViolation, CodeUnknownEffectField, "effect targets an unknown field")

	// Resource errors
	ErrNotEnoughCards      = newError(KindResource, CodeNotEnoughCards, "not enough cards left to draw")
	ErrTransactionConflict = newError(KindResource, CodeTransactionConflict, "concurrent update, retries exhausted")

	ErrInternal = newError(KindInternal, CodeInternal, "internal error")
)

// NewInternal wraps an unexpected failure with the rule execution context it occurred in
func NewInternal(cause error, rule, phase string, gameID GameID, playerID PlayerID, at time.Time) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: fmt.Sprintf("rule %s failed during %s", rule, phase),
		Cause:   cause,
		Details: map[string]any{
			"rule":      rule,
			"phase":     phase,
			"gameId":    string(gameID),
			"playerId":  string(playerID),
			"timestamp": at.UTC().Format(time.RFC3339Nano),
		},
	}
}

// AsError extracts the *Error in err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindInternal
}

// IsDomainError returns true for expected outcomes that should reach the caller unchanged
func IsDomainError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind != KindInternal
}
