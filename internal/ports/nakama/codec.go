package nakama

import (
	"fmt"
	"strings"

	"faceoff/internal/app"
	"faceoff/internal/domain"
	"faceoff/internal/engine"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client requests and server payloads travel as google.protobuf.Struct: JSON
// in, binary proto out.

// parseRequest decodes a client JSON payload. An empty payload is an empty request.
func parseRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return req, nil
	}
	if err := protojson.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

// stringList reads key as a list of strings or a comma separated string.
func stringList(req *structpb.Struct, key string) []string {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	if list := v.GetListValue(); list != nil {
		out := make([]string, 0, len(list.GetValues()))
		for _, item := range list.GetValues() {
			if s := strings.TrimSpace(item.GetStringValue()); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return splitList(v.GetStringValue())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// encode marshals fields as a binary google.protobuf.Struct.
func encode(fields map[string]any) ([]byte, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// encodeJSON marshals fields as protojson, used for labels and RPC responses.
func encodeJSON(fields map[string]any) (string, error) {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// snapshotFields is the full client view of a battle. The judge's pending
// action stays hidden until it is decreed.
func snapshotFields(e *engine.Engine, s *domain.MatchState) map[string]any {
	if s == nil {
		return map[string]any{"started": false}
	}

	lastElement := ""
	if s.LastElement != nil {
		lastElement = string(*s.LastElement)
	}

	hand := make([]any, len(s.Player.Hand))
	for i, c := range s.Player.Hand {
		card := cardFields(c)
		cost := engine.PreviewCost(*s, c)
		card["cost"] = cost.Patience
		card["face"] = cost.Face
		card["harmony"] = string(cost.Harmony)
		card["playable"] = engine.IsCardPlayable(*s, c)
		hand[i] = card
	}

	opponents := make([]any, len(s.Opponents))
	for i, o := range s.Opponents {
		opponents[i] = opponentFields(e, *s, o)
	}

	decrees := make([]any, len(s.Judge.Effects.ActiveDecrees))
	for i, d := range s.Judge.Effects.ActiveDecrees {
		decrees[i] = map[string]any{"id": d.ActionID, "name": d.Name, "description": d.Description, "turn": d.Turn}
	}

	statuses := make([]any, len(s.Statuses))
	for i, st := range s.Statuses {
		statuses[i] = map[string]any{
			"id":        st.ID,
			"template":  st.TemplateID,
			"name":      st.Name,
			"owner":     string(st.Owner),
			"turns":     st.TurnsRemaining,
			"triggers":  st.TriggersRemaining,
			"permanent": st.IsPermanent(),
			"positive":  st.IsPositive,
		}
	}

	return map[string]any{
		"started":        true,
		"battle_id":      s.BattleID,
		"phase":          string(s.Phase),
		"turn":           s.TurnNumber,
		"patience":       s.Patience,
		"last_element":   lastElement,
		"harmony_streak": s.HarmonyStreak,
		"in_flow":        e.InFlow(*s),
		"game_over":      s.IsGameOver,
		"winner":         string(s.Winner),
		"end_reason":     string(s.EndReason),
		"player": map[string]any{
			"face":     s.Player.Face,
			"max_face": s.Player.MaxFace,
			"poise":    s.Player.Poise,
			"standing": progressFields(e.TierProgress(*s, domain.OwnerPlayer)),
			"hand":     hand,
			"deck":     len(s.Player.Deck),
			"discard":  len(s.Player.Discard),
			"removed":  len(s.Player.Removed),
		},
		"opponents": opponents,
		"judge": map[string]any{
			"name":            s.Judge.Name,
			"patience_spent":  s.Judge.PatienceSpent,
			"threshold":       s.Judge.PatienceThreshold,
			"end_turn_cost":   s.Judge.Effects.EndTurnPatienceCost,
			"favor_modifier":  s.Judge.Effects.FavorGainModifier,
			"damage_modifier": s.Judge.Effects.DamageModifier,
			"decrees":         decrees,
		},
		"statuses": statuses,
	}
}

func cardFields(c domain.Card) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"template_id":   c.TemplateID,
		"name":          c.Name,
		"element":       string(c.Element),
		"patience_cost": c.PatienceCost,
		"face_cost":     c.FaceCost,
		"target":        string(c.TargetRequirement),
		"select":        c.SelectCount,
	}
}

func opponentFields(e *engine.Engine, s domain.MatchState, o domain.Opponent) map[string]any {
	fields := map[string]any{
		"id":        o.ID,
		"name":      o.Name,
		"face":      o.Face,
		"max_face":  o.MaxFace,
		"poise":     o.Poise,
		"standing":  progressFields(e.TierProgress(s, o.Owner())),
		"intention": intentionFields(o.CurrentIntention),
		"charge":    o.PatienceCharge,
		"flustered": o.FlusteredCount,
	}
	if o.IntentionRevealed && o.NextIntention != nil {
		fields["next_intention"] = intentionFields(*o.NextIntention)
	}
	return fields
}

func intentionFields(in domain.Intention) map[string]any {
	return map[string]any{
		"name":      in.Name,
		"type":      string(in.Type),
		"value":     in.Value,
		"threshold": in.PatienceThreshold,
	}
}

func progressFields(p domain.TierProgress) map[string]any {
	return map[string]any{
		"tier":     p.Tier,
		"name":     p.TierName,
		"favor":    p.Favor,
		"required": p.Required,
		"at_max":   p.AtMax,
	}
}

// eventFields maps an app event to its wire form.
func eventFields(ev app.Event) (map[string]any, error) {
	fields := map[string]any{"kind": string(ev.Kind)}
	switch p := ev.Payload.(type) {
	case domain.CombatEvent:
		fields["id"] = p.ID
		fields["turn"] = p.Turn
		fields["actor"] = p.Actor
		fields["target"] = p.Target
		fields["amount"] = p.Amount
		fields["detail"] = p.Detail
	case app.BattleStartedPayload:
		ids := make([]any, len(p.OpponentIDs))
		for i, id := range p.OpponentIDs {
			ids[i] = id
		}
		fields["battle_id"] = p.BattleID
		fields["judge"] = p.JudgeName
		fields["opponents"] = ids
	case app.HandUpdatedPayload:
		hand := make([]any, len(p.Hand))
		for i, c := range p.Hand {
			hand[i] = cardFields(c)
		}
		fields["hand"] = hand
		fields["deck"] = p.DeckSize
		fields["discard"] = p.Discarded
	case app.BattleEndedPayload:
		fields["winner"] = string(p.Winner)
		fields["reason"] = string(p.Reason)
		fields["turns"] = p.Turns
	default:
		return nil, fmt.Errorf("unsupported event payload %T", ev.Payload)
	}
	return fields, nil
}
