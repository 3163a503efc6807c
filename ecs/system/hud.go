package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/prefabs"
	"github.com/milk9111/stackers/stack"
)

const (
	hudScript   = "hud.tengo"
	toastFrames = 120
)

const hudDispatchScript = `
__result = prompt(__player)
`

// HUDSystem fills each player's HUD: a prompt computed by a tengo script
// and short-lived messages for failed stack attempts.
type HUDSystem struct {
	coord    *stack.Coordinator
	compiled *tengo.Compiled
	failed   bool
}

func NewHUDSystem(coord *stack.Coordinator) *HUDSystem {
	s := &HUDSystem{coord: coord}
	if err := s.Reload(); err != nil {
		log.Printf("hud: %v", err)
	}
	return s
}

// Reload recompiles the prompt script. On error the previous script stays
// active.
func (s *HUDSystem) Reload() error {
	src, err := prefabs.LoadScript(hudScript)
	if err != nil {
		return fmt.Errorf("hud: load script: %w", err)
	}
	compiled, err := compileHUDScript(src)
	if err != nil {
		return fmt.Errorf("hud: compile script: %w", err)
	}
	s.compiled = compiled
	s.failed = false
	return nil
}

func compileHUDScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), hudDispatchScript...))
	_ = script.Add("__player", map[string]any{})
	_ = script.Add("__result", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (s *HUDSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, ev := range w.Events().Take(EventStackChanged) {
		if res, ok := ev.Data.(stack.ToggleResult); ok {
			s.toast(w, res.Index, "")
			if res.Action == stack.ToggleStack {
				s.toast(w, res.Partner, "")
			}
		}
	}
	for _, ev := range w.Events().Take(EventStackFailed) {
		if res, ok := ev.Data.(stack.ToggleResult); ok {
			s.toast(w, res.Index, failureMessage(res.Err))
		}
	}

	ecs.ForEach2(w, component.PlayerComponent, component.HUDComponent, func(e ecs.Entity, p *component.Player, hud *component.HUD) {
		if hud.ToastFrames > 0 {
			hud.ToastFrames--
			if hud.ToastFrames == 0 {
				hud.Toast = ""
			}
		}
		hud.Prompt = s.prompt(s.describe(w, e, p))
	})
}

func (s *HUDSystem) toast(w *ecs.World, index int, msg string) {
	ecs.ForEach2(w, component.PlayerComponent, component.HUDComponent, func(_ ecs.Entity, p *component.Player, hud *component.HUD) {
		if p.Index != index {
			return
		}
		hud.Toast = msg
		hud.ToastFrames = 0
		if msg != "" {
			hud.ToastFrames = toastFrames
		}
	})
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, stack.ErrTooFar):
		return "too far apart to stack"
	case errors.Is(err, stack.ErrNoPartner):
		return "no one to stack with"
	case errors.Is(err, stack.ErrAlreadyStacked):
		return "someone is already stacked"
	default:
		return "can't stack right now"
	}
}

// describe builds the map handed to the script's prompt function.
func (s *HUDSystem) describe(w *ecs.World, e ecs.Entity, p *component.Player) map[string]any {
	device := component.DeviceKeyboardMouse
	if in, ok := ecs.Get(w, e, component.InputComponent); ok {
		device = in.Device
	}
	info := map[string]any{
		"index":        p.Index,
		"name":         p.Name,
		"device":       device.String(),
		"role":         stack.RoleUnassigned.String(),
		"partner":      "",
		"partner_near": false,
	}
	if s.coord == nil {
		return info
	}
	slot, ok := s.coord.Registry().Lookup(p.Index)
	if !ok {
		return info
	}
	info["role"] = slot.Role().String()
	if s.coord.IsStacked() {
		return info
	}

	// advertise only the partner the button would actually pick
	partner, ok := s.coord.PartnerFor(p.Index)
	if !ok || !slot.Active() {
		return info
	}
	if partner.Body().Position().Sub(slot.Body().Position()).Len() <= s.coord.Config().ProximityThreshold {
		info["partner_near"] = true
		info["partner"] = playerName(w, partner.Index())
	}
	return info
}

func playerName(w *ecs.World, index int) string {
	if e, ok := playerEntity(w, index); ok {
		if p, ok := ecs.Get(w, e, component.PlayerComponent); ok && p.Name != "" {
			return p.Name
		}
	}
	return fmt.Sprintf("P%d", index+1)
}

func (s *HUDSystem) prompt(player map[string]any) string {
	if s.compiled == nil || s.failed {
		return ""
	}
	if err := s.compiled.Set("__player", player); err != nil {
		log.Printf("hud: set player: %v", err)
		return ""
	}
	if err := s.compiled.Run(); err != nil {
		// log once per script version
		log.Printf("hud: script error: %v", err)
		s.failed = true
		return ""
	}
	return s.compiled.Get("__result").String()
}
