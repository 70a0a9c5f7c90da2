package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
	"github.com/okislab/placemat/pkg/observability"
)

var (
	// ErrStaleFrame is returned by every [Frame] method once the frame has
	// ended. Frame handles are valid for a single begin/end cycle and must
	// never be reused across frames.
	ErrStaleFrame = errors.New("stale frame: handle is no longer valid")

	// ErrFrameActive is returned by [Engine.Begin] while a previous frame
	// is still open. Frames are strictly sequential per engine.
	ErrFrameActive = errors.New("a frame is already active")

	// ErrPassOpen is returned when a pass is begun inside an open pass, or
	// when a frame is ended with a pass still open.
	ErrPassOpen = errors.New("a pass is already open")

	// ErrNoOpenPass is returned by draw calls and [Frame.EndPass] when no
	// pass is open.
	ErrNoOpenPass = errors.New("no open pass")

	// ErrPassOrder is returned by [Frame.BeginPass] when passes are begun
	// out of order. The order is background, content, overlay; a pass may
	// be skipped but never revisited.
	ErrPassOrder = errors.New("passes must begin in order")

	// ErrLengthMismatch is returned by bulk draw calls when the parallel
	// slices have different lengths. Validation happens before any
	// operation is recorded.
	ErrLengthMismatch = errors.New("parallel slice lengths differ")
)

// =============================================================================
// Passes and Operations
// =============================================================================

// Pass identifies one phase of a frame's draw sequence. Passes begin in
// declaration order within a frame.
type Pass int

const (
	// PassBackground draws placemat bodies behind everything else.
	PassBackground Pass = iota

	// PassContent draws nodes and edges.
	PassContent

	// PassOverlay draws titles, badges, and selection chrome on top.
	PassOverlay

	numPasses
)

func (p Pass) String() string {
	switch p {
	case PassBackground:
		return "background"
	case PassContent:
		return "content"
	case PassOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("pass(%d)", int(p))
	}
}

// OpKind discriminates recorded draw operations.
type OpKind int

const (
	// OpRect is a filled rectangle with an optional label.
	OpRect OpKind = iota

	// OpEdge is a directed connector between two elements.
	OpEdge

	// OpText is a free-standing text run.
	OpText
)

// RectRole tells a backend what a rectangle represents so it can pick
// shape and styling.
type RectRole int

const (
	// RoleNode is an ordinary graph node.
	RoleNode RectRole = iota

	// RolePlacemat is an expanded group region drawn behind its members.
	RolePlacemat

	// RoleCollapsed is a collapsed group region drawn as a compact badge.
	RoleCollapsed
)

// RectStyle carries the per-rectangle presentation properties of a bulk
// rect draw.
type RectStyle struct {
	// Role selects the backend's shape treatment.
	Role RectRole

	// Group is the owning placemat, or empty for free elements. Backends
	// that support nesting (DOT clusters) use it to group members.
	Group board.ElementID

	// Z orders rectangles within a pass; lower draws first.
	Z int
}

// Op is one recorded draw operation. Backends consume ops in recording
// order, grouped by pass.
type Op struct {
	Kind   OpKind
	Pass   Pass
	ID     board.ElementID
	Bounds geom.Rect
	Label  string
	Style  RectStyle

	// From and To are set for OpEdge.
	From board.ElementID
	To   board.ElementID

	// At is set for OpText.
	At geom.Point
}

// DisplayList is the complete recorded output of one frame, handed to the
// backend when the frame ends.
type DisplayList struct {
	// Seq is the frame sequence number the list was recorded under.
	Seq uint64

	// Ops holds all operations in recording order.
	Ops []Op
}

// PassOps returns the operations recorded during one pass, in order.
func (l *DisplayList) PassOps(p Pass) []Op {
	var ops []Op
	for _, op := range l.Ops {
		if op.Pass == p {
			ops = append(ops, op)
		}
	}
	return ops
}

// =============================================================================
// Backend
// =============================================================================

// Backend consumes a completed display list and produces output bytes.
// Backends are passed explicitly to [NewEngine]; there is no global
// registration.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Flush renders the display list. It is called exactly once per frame,
	// from [Frame.End].
	Flush(ctx context.Context, list *DisplayList) ([]byte, error)
}

// =============================================================================
// Engine
// =============================================================================

// Engine owns a backend and issues frames one at a time. An Engine is not
// safe for concurrent use: rendering is strictly sequential.
type Engine struct {
	backend Backend
	seq     uint64
	active  *Frame
}

// NewEngine creates an engine that flushes frames to the given backend.
func NewEngine(b Backend) *Engine {
	return &Engine{backend: b}
}

// Begin opens the next frame. It fails with [ErrFrameActive] if the
// previous frame has not ended.
func (e *Engine) Begin() (*Frame, error) {
	if e.active != nil {
		return nil, fmt.Errorf("%w: frame %d has not ended", ErrFrameActive, e.active.seq)
	}
	e.seq++
	f := &Frame{
		engine:   e,
		seq:      e.seq,
		lastPass: -1,
		started:  time.Now(),
	}
	e.active = f
	observability.Render().OnFrameBegin(f.seq)
	return f, nil
}

// Seq returns the sequence number of the most recently begun frame.
func (e *Engine) Seq() uint64 { return e.seq }

// =============================================================================
// Frame
// =============================================================================

// Frame records draw operations for one render cycle. All methods fail
// with [ErrStaleFrame] once [Frame.End] has run.
type Frame struct {
	engine   *Engine
	seq      uint64
	started  time.Time
	ended    bool
	inPass   bool
	pass     Pass
	lastPass Pass
	passes   int
	ops      []Op
}

// Seq returns the frame's sequence number.
func (f *Frame) Seq() uint64 { return f.seq }

func (f *Frame) check() error {
	if f.ended || f.engine.active != f {
		return fmt.Errorf("%w (frame %d)", ErrStaleFrame, f.seq)
	}
	return nil
}

// BeginPass opens the given pass. Passes must begin in order (background,
// content, overlay); each may run at most once and none may open while
// another is open.
func (f *Frame) BeginPass(p Pass) error {
	if err := f.check(); err != nil {
		return err
	}
	if f.inPass {
		return fmt.Errorf("%w: cannot begin %s inside %s", ErrPassOpen, p, f.pass)
	}
	if p < 0 || p >= numPasses {
		return fmt.Errorf("%w: unknown pass %d", ErrPassOrder, int(p))
	}
	if p <= f.lastPass {
		return fmt.Errorf("%w: %s cannot follow %s", ErrPassOrder, p, f.lastPass)
	}
	f.inPass = true
	f.pass = p
	f.lastPass = p
	f.passes++
	return nil
}

// EndPass closes the open pass.
func (f *Frame) EndPass() error {
	if err := f.check(); err != nil {
		return err
	}
	if !f.inPass {
		return fmt.Errorf("%w: EndPass", ErrNoOpenPass)
	}
	f.inPass = false
	return nil
}

// DrawRects records one rectangle per index from the parallel slices.
// All four slices must have the same length.
func (f *Frame) DrawRects(ids []board.ElementID, bounds []geom.Rect, labels []string, styles []RectStyle) error {
	if err := f.drawable(); err != nil {
		return err
	}
	n := len(ids)
	if len(bounds) != n || len(labels) != n || len(styles) != n {
		return fmt.Errorf("%w: ids=%d bounds=%d labels=%d styles=%d",
			ErrLengthMismatch, n, len(bounds), len(labels), len(styles))
	}
	for i := range ids {
		f.ops = append(f.ops, Op{
			Kind:   OpRect,
			Pass:   f.pass,
			ID:     ids[i],
			Bounds: bounds[i],
			Label:  labels[i],
			Style:  styles[i],
		})
	}
	return nil
}

// DrawEdges records one connector per index from the parallel slices.
func (f *Frame) DrawEdges(ids, from, to []board.ElementID) error {
	if err := f.drawable(); err != nil {
		return err
	}
	n := len(ids)
	if len(from) != n || len(to) != n {
		return fmt.Errorf("%w: ids=%d from=%d to=%d", ErrLengthMismatch, n, len(from), len(to))
	}
	for i := range ids {
		f.ops = append(f.ops, Op{
			Kind: OpEdge,
			Pass: f.pass,
			ID:   ids[i],
			From: from[i],
			To:   to[i],
		})
	}
	return nil
}

// DrawTexts records one text run per index from the parallel slices.
func (f *Frame) DrawTexts(at []geom.Point, texts []string) error {
	if err := f.drawable(); err != nil {
		return err
	}
	if len(at) != len(texts) {
		return fmt.Errorf("%w: points=%d texts=%d", ErrLengthMismatch, len(at), len(texts))
	}
	for i := range at {
		f.ops = append(f.ops, Op{
			Kind:  OpText,
			Pass:  f.pass,
			At:    at[i],
			Label: texts[i],
		})
	}
	return nil
}

func (f *Frame) drawable() error {
	if err := f.check(); err != nil {
		return err
	}
	if !f.inPass {
		return fmt.Errorf("%w: draw calls require an open pass", ErrNoOpenPass)
	}
	return nil
}

// End flushes the recorded display list to the engine's backend and
// invalidates the frame. The handle must not be used afterwards; every
// later call fails with [ErrStaleFrame].
func (f *Frame) End(ctx context.Context) ([]byte, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if f.inPass {
		return nil, fmt.Errorf("%w: frame ended during %s", ErrPassOpen, f.pass)
	}

	f.ended = true
	f.engine.active = nil

	list := &DisplayList{Seq: f.seq, Ops: f.ops}
	out, err := f.engine.backend.Flush(ctx, list)
	observability.Render().OnFrameEnd(f.seq, f.passes, time.Since(f.started), err)
	if err != nil {
		return nil, fmt.Errorf("flush to %s: %w", f.engine.backend.Name(), err)
	}
	return out, nil
}
