package engine

import "time"

// HoldSlots is the number of hold slots.
const HoldSlots = 2

// Controller defaults.
const (
	DefaultLockDelay     = 500 * time.Millisecond
	DefaultMaxLockResets = 15
)

// HoldSlot is one hold position. Used is set once the slot has been swapped
// during the current piece's lifetime.
type HoldSlot struct {
	Kind   Kind
	Filled bool
	Used   bool
}

// LockResult describes one lock: the piece as committed, the rows it
// completed (already cleared from the field) and its spin classification.
type LockResult struct {
	Piece    Piece
	Rows     []int
	Spin     SpinResult
	Spawned  bool // a new piece was installed afterwards
	GameOver bool
}

// Lines returns the number of cleared rows.
func (r LockResult) Lines() int {
	return len(r.Rows)
}

// ControllerConfig holds the tunable timings of a controller.
type ControllerConfig struct {
	DropInterval  time.Duration
	LockDelay     time.Duration
	MaxLockResets int
}

// Controller is the tick-driven state machine that owns the field, the
// active piece, the hold slots and the gravity/lock timers.
//
// Every mutation happens inside a method call; nothing runs in the
// background. Rejected inputs return false and change nothing.
type Controller struct {
	cfg ControllerConfig

	field  Field
	bag    *Bag
	piece  Piece
	active bool

	hold    [HoldSlots]HoldSlot
	canHold bool

	dropTimer    time.Duration
	dropInterval time.Duration
	lockTimer    time.Duration
	lockResets   int
	locking      bool

	lastActionWasRotation bool
	lastRotationWasKick   bool
	lastKickIndex         int

	lines        int
	blocksPlaced int
	piecesPlaced int
	holds        int
	exchanges    int

	gameOver bool
}

// NewController creates a controller with an empty field and spawns the
// first piece.
func NewController(cfg ControllerConfig, seed int64) *Controller {
	if cfg.DropInterval <= 0 {
		cfg.DropInterval = LevelInterval(1)
	}
	if cfg.LockDelay < 0 {
		cfg.LockDelay = 0
	}
	if cfg.MaxLockResets < 0 {
		cfg.MaxLockResets = 0
	}
	c := &Controller{cfg: cfg, bag: NewBag(seed)}
	c.Reset()
	return c
}

// Reset clears the field, counters and hold slots, restarts the bag from
// its seed and spawns a new piece.
func (c *Controller) Reset() {
	c.field = Field{}
	c.bag.Reset()
	c.hold = [HoldSlots]HoldSlot{}
	c.dropInterval = c.cfg.DropInterval
	c.lines, c.blocksPlaced, c.piecesPlaced = 0, 0, 0
	c.holds, c.exchanges = 0, 0
	c.gameOver = false
	c.active = false
	c.spawn()
}

// Reseed changes the bag seed and resets.
func (c *Controller) Reseed(seed int64) {
	c.bag.Reseed(seed)
	c.Reset()
}

// SetDropInterval changes the gravity interval. The running drop timer is
// kept.
func (c *Controller) SetDropInterval(d time.Duration) {
	if d > 0 {
		c.dropInterval = d
	}
}

// GameOver reports whether the last spawn failed.
func (c *Controller) GameOver() bool {
	return c.gameOver
}

// Piece returns the active piece. The bool is false when there is none.
func (c *Controller) Piece() (Piece, bool) {
	return c.piece, c.active
}

// Field returns a copy of the placed blocks.
func (c *Controller) Field() Field {
	return c.field
}

// Next returns the upcoming n kinds.
func (c *Controller) Next(n int) []Kind {
	return c.bag.Peek(n)
}

// GhostY returns the row the active piece would land on.
func (c *Controller) GhostY() int {
	p := c.piece
	for c.field.Fits(p.Moved(0, 1)) {
		p.Y++
	}
	return p.Y
}

// spawn draws the next kind and installs it. A blocked spawn ends the game.
func (c *Controller) spawn() bool {
	kind := c.bag.Next()
	if !c.field.CanSpawn(kind) {
		c.gameOver = true
		c.active = false
		return false
	}
	c.install(kind)
	c.canHold = true
	for i := range c.hold {
		c.hold[i].Used = false
	}
	return true
}

// install places kind at the spawn pose with fresh lock and rotation state.
func (c *Controller) install(kind Kind) {
	c.piece = SpawnPiece(kind)
	c.active = true
	c.dropTimer = 0
	c.resetLockState()
	c.lastActionWasRotation = false
	c.lastRotationWasKick = false
	c.lastKickIndex = -1
}

func (c *Controller) resetLockState() {
	c.locking = false
	c.lockTimer = 0
	c.lockResets = 0
}

// extendLock restarts the lock timer while the reset budget lasts.
func (c *Controller) extendLock() {
	if !c.locking || c.lockResets >= c.cfg.MaxLockResets {
		return
	}
	c.lockResets++
	c.lockTimer = 0
}

// lockSpent reports whether the lock reset budget is used up. From then on
// the lock timer keeps running whatever the piece does.
func (c *Controller) lockSpent() bool {
	return c.locking && c.lockResets >= c.cfg.MaxLockResets
}

func (c *Controller) playable() bool {
	return c.active && !c.gameOver
}

// Move translates the active piece. A successful downward move leaves the
// locking phase since the piece is no longer resting where it landed,
// unless the reset budget is spent.
func (c *Controller) Move(dx, dy int) bool {
	if !c.playable() || (dx == 0 && dy == 0) {
		return false
	}
	next := c.piece.Moved(dx, dy)
	if !c.field.Fits(next) {
		return false
	}
	c.piece = next
	c.lastActionWasRotation = false
	if dy > 0 {
		if !c.lockSpent() {
			c.locking = false
			c.lockTimer = 0
		}
		return true
	}
	c.extendLock()
	return true
}

// Rotate turns the active piece one step using the SRS kick tables.
func (c *Controller) Rotate(clockwise bool) bool {
	if !c.playable() {
		return false
	}
	res := AttemptRotation(c.piece, &c.field, clockwise)
	if !res.Success {
		return false
	}
	c.piece.X, c.piece.Y, c.piece.Rotation = res.X, res.Y, res.Rotation
	c.lastActionWasRotation = true
	c.lastRotationWasKick = res.WallKickUsed
	c.lastKickIndex = res.KickIndex
	c.extendLock()
	return true
}

// Tick advances gravity and the lock timer by dt. The bool reports whether
// the piece locked during this tick.
func (c *Controller) Tick(dt time.Duration) (LockResult, bool) {
	if !c.playable() || dt <= 0 {
		return LockResult{}, false
	}

	wasLocking := c.locking
	spent := c.lockSpent()
	c.dropTimer += dt
	if c.dropTimer >= c.dropInterval {
		c.dropTimer = 0
		if c.field.Fits(c.piece.Moved(0, 1)) {
			c.piece.Y++
			c.lastActionWasRotation = false
			if !spent {
				c.locking = false
				c.lockTimer = 0
				return LockResult{}, false
			}
		} else {
			c.locking = true
		}
	} else if c.locking && !spent && c.field.Fits(c.piece.Moved(0, 1)) {
		// Moved or rotated off the ledge it was resting on.
		c.locking = false
		c.lockTimer = 0
	}

	if !c.locking {
		return LockResult{}, false
	}
	if wasLocking {
		c.lockTimer += dt
	}
	if c.lockTimer < c.cfg.LockDelay {
		return LockResult{}, false
	}
	// A piece kicked upward after the budget ran out locks where it lands.
	if c.field.Fits(c.piece.Moved(0, 1)) {
		for c.field.Fits(c.piece.Moved(0, 1)) {
			c.piece.Y++
		}
		c.lastActionWasRotation = false
	}
	return c.lock(), true
}

// HardDrop drops the piece as far as it goes and locks it immediately.
// rows is the distance fallen.
func (c *Controller) HardDrop() (res LockResult, rows int, ok bool) {
	if !c.playable() {
		return LockResult{}, 0, false
	}
	for c.field.Fits(c.piece.Moved(0, 1)) {
		c.piece.Y++
		rows++
	}
	if rows > 0 {
		c.lastActionWasRotation = false
	}
	return c.lock(), rows, true
}

// lock commits the active piece, clears completed rows and spawns the next
// piece.
func (c *Controller) lock() LockResult {
	p := c.piece
	before := c.field
	c.field.Commit(p)

	rows := c.field.CompletedRows()
	res := LockResult{Piece: p, Rows: rows, Spin: SpinResult{Lines: len(rows)}}
	if len(rows) > 0 && c.lastActionWasRotation && c.lastRotationWasKick {
		res.Spin = ClassifySpin(p, &before, true, c.lastKickIndex, len(rows))
	}
	c.field.Clear(rows)

	c.lines += len(rows)
	c.blocksPlaced += len(p.Blocks())
	c.piecesPlaced++
	c.active = false

	res.Spawned = c.spawn()
	res.GameOver = c.gameOver
	return res
}

// holdIncoming returns the kind a hold into slot would bring in.
func (c *Controller) holdIncoming(slot int) Kind {
	if c.hold[slot].Filled {
		return c.hold[slot].Kind
	}
	return c.bag.Peek(1)[0]
}

// CanHold reports whether Hold(slot) would succeed, ignoring its price.
func (c *Controller) CanHold(slot int) bool {
	if !c.playable() || !c.canHold || slot < 0 || slot >= HoldSlots || c.hold[slot].Used {
		return false
	}
	return c.field.CanSpawn(c.holdIncoming(slot))
}

// Hold swaps the active piece into slot. An empty slot draws the incoming
// piece from the bag. The incoming piece starts at the spawn pose.
func (c *Controller) Hold(slot int) bool {
	if !c.CanHold(slot) {
		return false
	}
	var incoming Kind
	if c.hold[slot].Filled {
		incoming = c.hold[slot].Kind
	} else {
		incoming = c.bag.Next()
	}
	c.hold[slot] = HoldSlot{Kind: c.piece.Kind, Filled: true, Used: true}
	c.install(incoming)
	c.canHold = false
	c.holds++
	return true
}

// exchangeCandidates lists the kinds other than the active one that fit at
// the spawn pose.
func (c *Controller) exchangeCandidates() []Kind {
	out := make([]Kind, 0, KindCount-1)
	for _, k := range AllKinds {
		if k != c.piece.Kind && c.field.CanSpawn(k) {
			out = append(out, k)
		}
	}
	return out
}

// CanExchange reports whether Exchange would succeed, ignoring its price.
func (c *Controller) CanExchange() bool {
	return c.playable() && len(c.exchangeCandidates()) > 0
}

// Exchange replaces the active piece with a random piece of another kind
// at the spawn pose.
func (c *Controller) Exchange() bool {
	if !c.playable() {
		return false
	}
	candidates := c.exchangeCandidates()
	if len(candidates) == 0 {
		return false
	}
	c.install(c.bag.Pick(candidates))
	c.exchanges++
	return true
}

// ClearBottomRow removes the bottom row if it holds any block and the
// active piece still fits after the shift.
func (c *Controller) ClearBottomRow() bool {
	if !c.playable() || c.field.RowEmpty(Height-1) {
		return false
	}
	next := c.field
	next.Clear([]int{Height - 1})
	if !next.Fits(c.piece) {
		return false
	}
	c.field = next
	return true
}
