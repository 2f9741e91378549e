package world

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"luminacraft/config"
	"luminacraft/render"
)

func testConfig() config.Config {
	c := config.Default()
	c.World.ChunkSize = 4
	c.World.RenderDistance = 2
	c.World.RenderHeight = 1
	c.Streaming.Workers = 2
	c.Streaming.MaxInFlight = 4
	c.Camera.Spawn = [3]float32{0.5, 1.5, 0.5}
	return c
}

type regionFixture struct {
	w   *Region
	r   *fakeRenderer
	in  *fakeInput
	reg *prometheus.Registry
}

func newRegionFixture(t *testing.T, cfg config.Config, src TerrainSource) *regionFixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	reg := prometheus.NewRegistry()
	w, err := NewRegion(cfg, log, reg, src)
	require.NoError(t, err)

	f := &regionFixture{w: w, r: newFakeRenderer(), in: newFakeInput(), reg: reg}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.Close(ctx, f.r)
	})
	return f
}

func (f *regionFixture) frame(t *testing.T) {
	t.Helper()
	f.r.BeginFrame()
	f.w.Update(1.0/60, f.in, f.r)
	f.r.EndFrame()
	checkStreamingInvariants(t, f.w)
}

func (f *regionFixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.w.Pool().Wait(ctx))
}

// settle runs frames until nothing is queued or loading, then one more so
// every chunk has been drawn.
func (f *regionFixture) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 500; i++ {
		f.frame(t)
		f.drain(t)
		if f.w.Store().QueueLen() == 0 && f.w.Pool().InFlight() == 0 && allReady(f.w) {
			f.frame(t)
			return
		}
	}
	t.Fatal("world never settled")
}

func allReady(w *Region) bool {
	ready := true
	w.Store().Range(func(ch *Chunk) bool {
		ready = ch.IsReady()
		return ready
	})
	return ready
}

func checkStreamingInvariants(t *testing.T, w *Region) {
	t.Helper()
	for _, c := range w.Store().Queue() {
		require.False(t, w.Store().Has(c), "%v is both queued and resident", c)
	}
}

func residentChunks(w *Region) map[ChunkCoord]*Chunk {
	out := map[ChunkCoord]*Chunk{}
	w.Store().Range(func(ch *Chunk) bool {
		out[ch.Coord()] = ch
		return true
	})
	return out
}

func TestNewRegionValidates(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := NewRegion(testConfig(), log, nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.World.ChunkSize = 300
	_, err = NewRegion(cfg, log, nil, groundSource)
	assert.Error(t, err)

	reg := prometheus.NewRegistry()
	w, err := NewRegion(testConfig(), log, reg, groundSource)
	require.NoError(t, err)
	defer w.Close(context.Background(), nil)
	_, err = NewRegion(testConfig(), log, reg, groundSource)
	assert.ErrorContains(t, err, "metrics", "second region on the same registry")
}

func TestRegionStreamsTargetSet(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)

	f.frame(t)
	assert.Zero(t, f.w.Store().Len(), "first frame only builds the queue")
	queued := f.w.Store().Queue()
	require.NotEmpty(t, queued)
	assert.Equal(t, ChunkCoord{0, 0, 0}, queued[0], "player chunk comes first")

	f.settle(t)
	resident := residentChunks(f.w)
	assert.Len(t, resident, len(queued))
	for _, c := range queued {
		assert.Contains(t, resident, c)
		assert.LessOrEqual(t, EuclideanDistance(c, ChunkCoord{}), 2.0)
	}

	st := f.w.Stats()
	assert.Equal(t, len(queued), st.NumChunks)
	assert.Zero(t, st.ChunksLoading)
	assert.Zero(t, st.Queued)
	assert.EqualValues(t, len(queued), st.Generated)
	// only the layer below the surface has faces
	assert.Greater(t, st.NumChunksRendered, 0)
	assert.Len(t, f.r.draws, st.NumChunksRendered)
}

func TestRegionStreamingInvariantsWhileMoving(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)
	cam := f.w.Player().Camera()

	path := []mgl32.Vec3{{0, 1, 0}, {5, 1, 0}, {9, 1, 3}, {9, 6, 14}, {-3, 1, -7}, {-20, 1, 2}, {0, 1, 0}}
	for _, p := range path {
		cam.SetPosition(p)
		for i := 0; i < 3; i++ {
			f.frame(t)
		}
		f.drain(t)
		f.frame(t)
	}
	f.settle(t)

	seen := map[ChunkCoord]bool{}
	f.w.Store().Range(func(ch *Chunk) bool {
		require.False(t, seen[ch.Coord()])
		seen[ch.Coord()] = true
		return true
	})
	for c := range seen {
		assert.LessOrEqual(t, EuclideanDistance(c, f.w.CurrentChunk()), 2.0)
	}
}

func TestRegionEvictsOnlyReadyChunks(t *testing.T) {
	gate := make(chan struct{})
	var blocking atomic.Bool
	src := sourceFunc(func(c ChunkCoord, n int) []BlockType {
		if blocking.Load() {
			<-gate
		}
		return groundSource(c, n)
	})

	f := newRegionFixture(t, testConfig(), src)
	f.settle(t)
	home := residentChunks(f.w)
	require.NotEmpty(t, home)

	// leave home and start chunks that cannot finish
	blocking.Store(true)
	f.w.Player().Camera().SetPosition(mgl32.Vec3{12.5, 1.5, 0.5})
	f.frame(t)
	f.frame(t)
	var pending []*Chunk
	f.w.Store().Range(func(ch *Chunk) bool {
		if ch.State() == Pending {
			pending = append(pending, ch)
		}
		return true
	})
	require.NotEmpty(t, pending)

	// jump far away; every chunk is now out of range
	f.w.Player().Camera().SetPosition(mgl32.Vec3{400, 1.5, 0})
	before := residentChunks(f.w)
	f.frame(t)
	after := residentChunks(f.w)
	for c, ch := range before {
		if _, ok := after[c]; !ok {
			assert.Equal(t, Ready, ch.State(), "evicted %v while %v", c, ch.State())
		}
	}
	for _, ch := range pending {
		assert.Contains(t, after, ch.Coord(), "pending chunk %v was evicted", ch.Coord())
	}
	for c := range home {
		if EuclideanDistance(c, f.w.CurrentChunk()) > 2 {
			assert.NotContains(t, after, c)
		}
	}

	// let the stragglers finish; they are uploaded and then evicted
	close(gate)
	f.drain(t)
	f.frame(t)
	f.frame(t)
	after = residentChunks(f.w)
	for _, ch := range pending {
		assert.NotContains(t, after, ch.Coord())
	}
	assert.Equal(t, f.r.created, f.r.deleted+len(f.r.live))
}

func TestRegionDropsFailedChunks(t *testing.T) {
	var broken atomic.Bool
	broken.Store(true)
	src := sourceFunc(func(c ChunkCoord, n int) []BlockType {
		if broken.Load() && c == (ChunkCoord{}) {
			panic("bad column")
		}
		return groundSource(c, n)
	})

	f := newRegionFixture(t, testConfig(), src)
	for i := 0; i < 30; i++ {
		f.frame(t)
		f.drain(t)
	}
	f.frame(t)

	// the chunk and its six neighbours all sample the bad grid
	st := f.w.Stats()
	assert.EqualValues(t, 7, st.Failed)
	assert.Zero(t, st.ChunksLoading)
	assert.Zero(t, st.Queued)
	assert.False(t, f.w.Store().Has(ChunkCoord{}))
	assert.Zero(t, f.w.Pool().Panics(), "failures are handled before the pool sees them")
	assert.Equal(t, float64(st.Generated), testutil.ToFloat64(f.w.metrics.Generated))
	assert.EqualValues(t, st.NumChunks, st.Generated)

	// a queue rebuild retries the dropped coordinates
	broken.Store(false)
	f.w.Player().Camera().SetPosition(mgl32.Vec3{4.5, 1.5, 0.5})
	f.settle(t)
	ch, ok := f.w.Store().Get(ChunkCoord{})
	require.True(t, ok)
	assert.Equal(t, Ready, ch.State())
	assert.EqualValues(t, 7, f.w.Stats().Failed)
}

func TestRegionCameraUniformsUploadOnChange(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)

	f.frame(t)
	assert.Equal(t, 1, f.r.lookups["view"])
	assert.Equal(t, 1, f.r.lookups["model"])
	require.Contains(t, f.r.mats, render.UniformLocation(0))
	assert.Equal(t, f.w.Player().Camera().ViewMatrix(), f.r.mats[0])

	f.frame(t)
	assert.Equal(t, 1, f.r.lookups["view"], "unchanged camera is not uploaded again")

	f.in.keys[render.KeyW] = true
	f.frame(t)
	assert.Equal(t, 2, f.r.lookups["view"])
	assert.Equal(t, f.w.Player().Camera().ViewMatrix(), f.r.mats[0])
	f.in.keys[render.KeyW] = false

	delete(f.r.uniforms, "model")
	f.w.InvalidateUniforms()
	f.frame(t)
	assert.Equal(t, 3, f.r.lookups["view"])
	for _, d := range f.r.draws {
		assert.Equal(t, render.NoUniform, d.loc)
	}
}

func TestRegionBlockQueries(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)
	assert.Equal(t, NoData, f.w.GetBlockAtWorldPosition(0, -1, 0))

	f.settle(t)
	assert.Equal(t, Stone, f.w.GetBlockAtWorldPosition(0, -1, 0))
	assert.Equal(t, Stone, f.w.GetBlockAtWorldPosition(-3, -4, -2))
	assert.Equal(t, Air, f.w.GetBlockAtWorldPosition(1, 0, 1))
	assert.Equal(t, NoData, f.w.GetBlockAtWorldPosition(1000, 0, 0))

	ch, ok := f.w.GetChunkAtPosition(mgl32.Vec3{-0.5, -0.5, 1})
	require.True(t, ok)
	assert.Equal(t, ChunkCoord{-1, -1, 0}, ch.Coord())
	_, ok = f.w.GetChunkAtPosition(mgl32.Vec3{1000, 0, 0})
	assert.False(t, ok)

	b, pos := f.w.Raycast(mgl32.Vec3{0.5, 3.5, 0.5}, mgl32.Vec3{0.5, -3.5, 0.5}, 10)
	assert.Equal(t, Stone, b)
	assert.Equal(t, BlockPos{0, -1, 0}, pos)
}

func TestRegionClickRecordsDebugLine(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)
	f.settle(t)
	f.w.Player().Camera().Rotate(0, -90)

	f.in.buttons[render.MouseButtonLeft] = true
	f.frame(t)
	require.Len(t, f.w.DebugLines(), 1)
	line := f.w.DebugLines()[0]
	assert.Equal(t, HitLineColor, line.Color)
	assert.Equal(t, mgl32.Vec3{0.5, -0.5, 0.5}, line.End)

	f.frame(t)
	assert.Len(t, f.w.DebugLines(), 1, "holding the button does not repeat")

	f.in.buttons[render.MouseButtonLeft] = false
	f.frame(t)
	f.w.Player().Camera().Rotate(0, 180)
	f.in.buttons[render.MouseButtonLeft] = true
	f.frame(t)
	require.Len(t, f.w.DebugLines(), 2)
	assert.Equal(t, MissLineColor, f.w.DebugLines()[1].Color)

	// lines expire after their lifetime
	f.in.buttons[render.MouseButtonLeft] = false
	for i := 0; i < 60*4; i++ {
		f.frame(t)
	}
	assert.Empty(t, f.w.DebugLines())
}

func TestRegionFrustumCulling(t *testing.T) {
	cfg := testConfig()
	f := newRegionFixture(t, cfg, groundSource)
	f.settle(t)
	all := f.w.Stats().NumChunksRendered

	f.w.SetFrustumCulling(true)
	f.frame(t)
	culled := f.w.Stats().NumChunksRendered
	assert.Greater(t, culled, 0)
	assert.Less(t, culled, all)
	assert.Equal(t, f.w.Store().Len(), f.w.Stats().NumChunks, "culling never evicts")
}

func TestRegionChebyshevKeepsCorners(t *testing.T) {
	cfg := testConfig()
	cfg.Streaming.EvictionMetric = config.MetricChebyshev
	cfg.Streaming.Pattern = config.PatternRing
	cfg.World.RenderDistance = 3
	f := newRegionFixture(t, cfg, groundSource)
	f.settle(t)

	// ring pattern fills the full square inside the distance
	assert.True(t, f.w.Store().Has(ChunkCoord{2, 1, 2}))
	assert.True(t, f.w.Store().Has(ChunkCoord{-2, -1, -2}))
}

func TestRegionMetrics(t *testing.T) {
	f := newRegionFixture(t, testConfig(), groundSource)
	f.settle(t)

	m := f.w.metrics
	resident := float64(f.w.Store().Len())
	assert.Equal(t, resident, testutil.ToFloat64(m.Resident))
	assert.Equal(t, resident, testutil.ToFloat64(m.Generated))
	assert.Equal(t, float64(f.w.Stats().NumChunksRendered), testutil.ToFloat64(m.Rendered))
	assert.Zero(t, testutil.ToFloat64(m.Loading))
	assert.Zero(t, testutil.ToFloat64(m.QueueLen))
	assert.Zero(t, testutil.ToFloat64(m.Evicted))

	count, err := testutil.GatherAndCount(f.reg, "luminacraft_chunk_generation_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	f.w.Player().Camera().SetPosition(mgl32.Vec3{400, 1.5, 0})
	f.frame(t)
	assert.Equal(t, resident, testutil.ToFloat64(m.Evicted))
}
