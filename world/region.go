package world

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"luminacraft/config"
	"luminacraft/player"
	"luminacraft/render"
)

// Stats is a snapshot of the streaming counters.
type Stats struct {
	NumChunks         int
	NumChunksRendered int
	ChunksLoading     int
	Queued            int
	InFlight          int
	Generated         int64
	Failed            int64
	Evicted           int64
}

// Region streams chunks around the player, generates them on a worker pool
// and draws the ones in range. Everything except the pool jobs runs on the
// goroutine that owns the renderer.
type Region struct {
	id  uuid.UUID
	log logrus.FieldLogger

	chunkSize      int
	renderDistance int
	renderHeight   int
	pattern        string
	distance       DistanceMetric
	frustumCulling bool
	reach          float32
	lineSeconds    float32

	src     TerrainSource
	store   *ChunkStore
	pool    *WorkerPool
	player  *player.Player
	metrics *Metrics

	current ChunkCoord
	started bool

	viewLoc, projLoc, modelLoc render.UniformLocation
	lastView, lastProj         mgl32.Mat4
	uniformsSet                bool

	lines    DebugLines
	clicking bool

	numChunks         int
	numChunksRendered int
	chunksLoading     int
	evicted           int64
	generated         atomic.Int64
	failed            atomic.Int64
}

// NewRegion builds a region from cfg. A nil reg keeps the metrics
// unregistered.
func NewRegion(cfg config.Config, log logrus.FieldLogger, reg prometheus.Registerer, src TerrainSource) (*Region, error) {
	if src == nil {
		return nil, fmt.Errorf("region needs a terrain source")
	}
	if cfg.World.ChunkSize < 1 || cfg.World.ChunkSize > 255 {
		return nil, fmt.Errorf("chunk size %d out of range 1..255", cfg.World.ChunkSize)
	}
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering world metrics: %w", err)
	}

	id := uuid.New()
	log = log.WithField("world", id.String())

	distance := EuclideanDistance
	if cfg.Streaming.EvictionMetric == config.MetricChebyshev {
		distance = ChebyshevDistance
	}

	settings := player.CameraSettings{
		FOV:              cfg.Camera.FOV,
		Sensitivity:      cfg.Camera.Sensitivity,
		Speed:            cfg.Camera.Speed,
		SprintMultiplier: cfg.Camera.SprintMultiplier,
	}
	spawn := mgl32.Vec3{cfg.Camera.Spawn[0], cfg.Camera.Spawn[1], cfg.Camera.Spawn[2]}

	w := &Region{
		id:             id,
		log:            log,
		chunkSize:      cfg.World.ChunkSize,
		renderDistance: cfg.World.RenderDistance,
		renderHeight:   cfg.World.RenderHeight,
		pattern:        cfg.Streaming.Pattern,
		distance:       distance,
		frustumCulling: cfg.Render.FrustumCulling,
		reach:          cfg.Debug.Reach,
		lineSeconds:    cfg.Debug.LineSeconds,
		src:            src,
		store:          NewChunkStore(),
		pool:           NewWorkerPool(cfg.Streaming.Workers, cfg.Streaming.MaxInFlight, log),
		player:         player.New(spawn, settings),
		metrics:        metrics,
		viewLoc:        render.NoUniform,
		projLoc:        render.NoUniform,
		modelLoc:       render.NoUniform,
	}
	log.WithFields(logrus.Fields{
		"chunk_size":      w.chunkSize,
		"render_distance": w.renderDistance,
		"render_height":   w.renderHeight,
		"pattern":         w.pattern,
	}).Info("World created.")
	return w, nil
}

func (w *Region) ID() uuid.UUID            { return w.id }
func (w *Region) Player() *player.Player   { return w.player }
func (w *Region) Store() *ChunkStore       { return w.store }
func (w *Region) Pool() *WorkerPool        { return w.pool }
func (w *Region) ChunkSize() int           { return w.chunkSize }
func (w *Region) CurrentChunk() ChunkCoord { return w.current }
func (w *Region) DebugLines() []DebugLine  { return w.lines.Lines() }

func (w *Region) SetFrustumCulling(on bool) { w.frustumCulling = on }
func (w *Region) FrustumCulling() bool      { return w.frustumCulling }

// Update runs one frame: move the player, stream chunks, then evict and
// draw. It must be called on the render goroutine.
func (w *Region) Update(dt float32, in render.Input, r render.Renderer) {
	w.player.Update(dt, in)
	w.uploadCamera(r)

	w.stream()
	w.sweep(r)

	clicking := in.IsMouseButtonPressed(render.MouseButtonLeft)
	if clicking && !w.clicking {
		w.pick()
	}
	w.clicking = clicking
	w.lines.Tick(dt)

	w.metrics.Resident.Set(float64(w.numChunks))
	w.metrics.Rendered.Set(float64(w.numChunksRendered))
	w.metrics.Loading.Set(float64(w.chunksLoading))
	w.metrics.QueueLen.Set(float64(w.store.QueueLen()))
}

// uploadCamera sends view and projection to the bound program when either
// changed since the last upload.
func (w *Region) uploadCamera(r render.Renderer) {
	cam := w.player.Camera()
	view, proj := cam.ViewMatrix(), cam.ProjectionMatrix()
	if w.uniformsSet && view == w.lastView && proj == w.lastProj {
		return
	}
	w.viewLoc = r.UniformLocation("view")
	w.projLoc = r.UniformLocation("projection")
	w.modelLoc = r.UniformLocation("model")
	r.SetMat4(w.viewLoc, view)
	r.SetMat4(w.projLoc, proj)
	w.lastView, w.lastProj = view, proj
	w.uniformsSet = true
}

// InvalidateUniforms forces the next frame to look the camera uniforms up
// again, e.g. after the program was rebuilt.
func (w *Region) InvalidateUniforms() {
	w.uniformsSet = false
}

// stream rebuilds the work queue when the player entered a new chunk and
// otherwise hands queued coordinates to the pool until it is full.
func (w *Region) stream() {
	cur := WorldToChunkCoords(w.player.Position(), w.chunkSize)
	if !w.started || cur != w.current {
		w.started = true
		w.current = cur
		w.store.ResetQueue(w.targets(cur))
		w.log.WithFields(logrus.Fields{
			"chunk":  cur.String(),
			"queued": w.store.QueueLen(),
		}).Debug("Rebuilt chunk queue.")
		return
	}
	w.dispatch()
}

// targets drops pattern cells the sweep would evict straight away, which
// happens on the outer vertical layers under the euclidean metric.
func (w *Region) targets(cur ChunkCoord) []ChunkCoord {
	all := TargetCoords(cur, w.pattern, w.renderDistance, w.renderHeight)
	limit := float64(w.renderDistance)
	out := all[:0]
	for _, c := range all {
		if w.distance(c, cur) <= limit {
			out = append(out, c)
		}
	}
	return out
}

func (w *Region) dispatch() {
	for {
		c, ok := w.store.Peek()
		if !ok {
			return
		}
		if w.store.Has(c) {
			w.store.Pop()
			continue
		}
		ch := NewChunk(c, w.chunkSize)
		if !w.pool.TrySubmit(func() { w.generate(ch) }) {
			return
		}
		w.store.Pop()
		w.store.Insert(ch)
		w.log.WithField("chunk", c.String()).Debug("Dispatched chunk.")
	}
}

// generate runs on a pool worker. The closure holds ch until it is done,
// whether or not the chunk is still wanted.
func (w *Region) generate(ch *Chunk) {
	if err := ch.Generate(w.src); err != nil {
		w.failed.Inc()
		w.log.WithError(err).WithField("chunk", ch.Coord().String()).Error("Chunk generation failed.")
		return
	}
	took := ch.GenerationTime()
	w.generated.Inc()
	w.metrics.Generated.Inc()
	w.metrics.GenTime.Observe(took.Seconds())
	w.log.WithFields(logrus.Fields{
		"chunk": ch.Coord().String(),
		"faces": ch.Mesh().Faces(),
		"took":  took,
	}).Debug("Generated chunk.")
}

// sweep counts chunks still loading, drops failed ones, evicts ready chunks
// out of range and draws the rest. A dropped coordinate is queued again on
// the next queue rebuild.
func (w *Region) sweep(r render.Renderer) {
	var frustum render.Frustum
	if w.frustumCulling {
		frustum = render.NewFrustum(w.player.Camera().ViewProjectionMatrix())
	}

	loading, rendered := 0, 0
	limit := float64(w.renderDistance)
	w.store.Range(func(ch *Chunk) bool {
		if ch.State() == Failed {
			w.store.Remove(ch.Coord())
			w.log.WithField("chunk", ch.Coord().String()).Warn("Dropped failed chunk.")
			return true
		}
		if !ch.IsReady() {
			loading++
			ch.Render(r, w.modelLoc)
			return true
		}
		if w.distance(ch.Coord(), w.current) > limit {
			w.evict(ch, r)
			return true
		}
		if w.frustumCulling {
			if lo, hi := ch.Bounds(); !frustum.IntersectsBox(lo, hi) {
				return true
			}
		}
		if ch.Render(r, w.modelLoc) {
			rendered++
		}
		return true
	})

	w.numChunks = w.store.Len()
	w.numChunksRendered = rendered
	w.chunksLoading = loading
}

func (w *Region) evict(ch *Chunk, r render.Renderer) {
	ch.Release(r)
	w.store.Remove(ch.Coord())
	w.evicted++
	w.metrics.Evicted.Inc()
	w.log.WithField("chunk", ch.Coord().String()).Debug("Evicted chunk.")
}

// pick casts a ray along the view direction and records it as a debug line.
func (w *Region) pick() {
	cam := w.player.Camera()
	start := cam.Position()
	end := start.Add(cam.Forward().Mul(w.reach))

	block, pos := w.Raycast(start, end, w.reach)
	line := DebugLine{Start: start, End: end, Color: MissLineColor, Remaining: w.lineSeconds}
	if block.IsSolid() {
		line.End = pos.Center()
		line.Color = HitLineColor
		w.log.WithFields(logrus.Fields{
			"block":    block.String(),
			"position": fmt.Sprintf("(%d, %d, %d)", pos.X, pos.Y, pos.Z),
		}).Info("Ray hit block.")
	}
	w.lines.Add(line)
}

// Raycast walks the resident chunks from start towards end.
func (w *Region) Raycast(start, end mgl32.Vec3, maxDistance float32) (BlockType, BlockPos) {
	return Raycast(w, start, end, maxDistance)
}

// GetChunkAtPosition returns the resident chunk containing world position p.
func (w *Region) GetChunkAtPosition(p mgl32.Vec3) (*Chunk, bool) {
	return w.store.Get(WorldToChunkCoords(p, w.chunkSize))
}

// GetBlockAtWorldPosition returns the block at a world voxel, or NoData when
// its chunk is missing or not generated yet.
func (w *Region) GetBlockAtWorldPosition(x, y, z int) BlockType {
	n := w.chunkSize
	c := ChunkCoord{int32(floorDiv(x, n)), int32(floorDiv(y, n)), int32(floorDiv(z, n))}
	ch, ok := w.store.Get(c)
	if !ok {
		return NoData
	}
	return ch.GetBlockAtPosition(floorMod(x, n), floorMod(y, n), floorMod(z, n))
}

func (w *Region) Stats() Stats {
	return Stats{
		NumChunks:         w.numChunks,
		NumChunksRendered: w.numChunksRendered,
		ChunksLoading:     w.chunksLoading,
		Queued:            w.store.QueueLen(),
		InFlight:          w.pool.InFlight(),
		Generated:         w.generated.Load(),
		Failed:            w.failed.Load(),
		Evicted:           w.evicted,
	}
}

// Close waits for outstanding generation jobs and frees every chunk's GPU
// buffers. r may be nil when the context is already gone.
func (w *Region) Close(ctx context.Context, r render.Renderer) error {
	err := w.pool.Close(ctx)
	if r != nil {
		w.store.Range(func(ch *Chunk) bool {
			ch.Release(r)
			return true
		})
	}
	w.log.WithField("chunks", w.store.Len()).Info("World closed.")
	return err
}
