package walk

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/world"
)

type recordingRenderer struct {
	frames []*image.Gray
	err    error
}

func (r *recordingRenderer) Show(frame image.Image) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, frame.(*image.Gray))
	return nil
}

func (r *recordingRenderer) last() *image.Gray { return r.frames[len(r.frames)-1] }

func markerAtCenter(frame *image.Gray) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if frame.GrayAt(64+dx, 32+dy).Y != 0xFF {
				return false
			}
		}
	}
	return true
}

var _ = Describe("Direction", func() {
	It("covers the eight compass points once", func() {
		seen := map[image.Point]bool{}
		for _, d := range Directions {
			seen[image.Pt(d.DX, d.DY)] = true
		}
		Expect(seen).To(HaveLen(8))
		Expect(seen).NotTo(HaveKey(image.Pt(0, 0)))
	})

	It("gives diagonal and axial steps the same length", func() {
		for _, distance := range []float64{1, 7.3, 18} {
			for _, d := range Directions {
				dx, dy := d.Delta(distance, 1.5)
				Expect(math.Hypot(dx, dy)).To(BeNumerically("~", distance*1.5, 1e-9))
			}
		}
	})
})

var _ = Describe("Engine", func() {
	var (
		cfg      *config.Config
		canvas   *world.Canvas
		renderer *recordingRenderer
		engine   *Engine
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		var err error
		canvas, err = world.New(*cfg)
		Expect(err).NotTo(HaveOccurred())
		renderer = &recordingRenderer{}
		engine = New(*cfg, canvas, renderer, rand.New(rand.NewSource(7)))
	})

	It("starts at the origin with full energy", func() {
		Expect(engine.State()).To(Equal(State{Energy: 1}))
		Expect(engine.Start()).To(Succeed())
		Expect(renderer.frames).To(HaveLen(1))
		o := canvas.Origin()
		Expect(canvas.At(o.X, o.Y)).To(BeTrue())
		Expect(markerAtCenter(renderer.last())).To(BeTrue())
	})

	Context("a single 18 m step east", func() {
		It("moves 27 px and keeps the window centered", func() {
			s := engine.move(Directions[2], 18)
			Expect(s.DX).To(BeNumerically("~", 27, 1e-9))
			Expect(s.DY).To(BeZero())

			st := engine.State()
			Expect(st.X).To(BeNumerically("~", 27, 1e-9))
			Expect(st.Y).To(BeZero())

			Expect(canvas.WindowOrigin(st.X, st.Y, 128, 64)).To(Equal(image.Pt(256+27, 256)))

			Expect(engine.Render()).To(Succeed())
			Expect(markerAtCenter(renderer.last())).To(BeTrue())

			o := canvas.Origin()
			for x := 0; x <= 27; x++ {
				Expect(canvas.At(o.X+x, o.Y)).To(BeTrue())
			}
		})
	})

	Context("walking past the margin", func() {
		It("clamps the window instead of failing", func() {
			east := Directions[2]
			for i := 0; i < 30; i++ {
				engine.move(east, 18)
				Expect(engine.Render()).To(Succeed())
				Expect(markerAtCenter(renderer.last())).To(BeTrue())
				Expect(renderer.last().Bounds()).To(Equal(image.Rect(0, 0, 128, 64)))
			}

			st := engine.State()
			Expect(st.X).To(BeNumerically(">", float64(cfg.World.Margin+64)))
			Expect(canvas.WindowOrigin(st.X, st.Y, 128, 64).X).To(Equal(canvas.Bounds().Dx() - 128))

			// the trail reaches the canvas edge and shows in the last column
			Expect(renderer.last().GrayAt(127, 32).Y).To(Equal(uint8(0xFF)))
		})
	})

	Describe("pacing", func() {
		It("clamps the base pause", func() {
			cfg.Walk.Speed = 1000
			engine = New(*cfg, canvas, renderer, rand.New(rand.NewSource(1)))
			pause, rested := engine.pace(1)
			Expect(rested).To(BeFalse())
			Expect(pause).To(Equal(200 * time.Millisecond))

			cfg.Walk.Speed = 0.01
			engine = New(*cfg, canvas, renderer, rand.New(rand.NewSource(1)))
			pause, _ = engine.pace(1)
			Expect(pause).To(Equal(3 * time.Second))
		})

		It("rests every time energy drops below the threshold", func() {
			rests := []int{}
			for i := 1; i <= 12; i++ {
				_, rested := engine.pace(18)
				if rested {
					rests = append(rests, i)
				}
			}
			// 1.0 -> 0.82 -> 0.64 -> 0.46 -> 0.28 -> 0.10 (rest, 0.60)
			// -> 0.42 -> 0.24 -> 0.06 (rest, 0.56) -> 0.38 -> 0.20 -> 0.02 (rest)
			Expect(rests).To(Equal([]int{5, 8, 11}))
		})

		It("adds the recovery pause on top of the base pause", func() {
			engine.state.Energy = 0.21
			pause, rested := engine.pace(18)
			Expect(rested).To(BeTrue())
			Expect(pause).To(BeNumerically(">=", 200*time.Millisecond+500*time.Millisecond))
			Expect(engine.State().Energy).To(BeNumerically("~", 0.53, 1e-9))
		})

		It("floors energy at zero before recovering", func() {
			engine.state.Energy = 0.05
			_, rested := engine.pace(18)
			Expect(rested).To(BeTrue())
			Expect(engine.State().Energy).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Describe("Step", func() {
		It("keeps energy and pause in range over a long walk", func() {
			cfg.World.Margin = 2000
			var err error
			canvas, err = world.New(*cfg)
			Expect(err).NotTo(HaveOccurred())
			engine = New(*cfg, canvas, nil, rand.New(rand.NewSource(99)))

			lo := time.Duration(cfg.Walk.MinPause * float64(time.Second))
			hi := time.Duration((cfg.Walk.MaxPause + 1.5) * float64(time.Second))
			for i := 0; i < 500; i++ {
				pause, err := engine.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(pause).To(BeNumerically(">=", lo))
				Expect(pause).To(BeNumerically("<=", hi))
				e := engine.State().Energy
				Expect(e).To(BeNumerically(">=", 0))
				Expect(e).To(BeNumerically("<=", 1))
			}
			Expect(engine.State().Steps).To(Equal(500))
		})

		It("notifies observers with the step record", func() {
			var got []Step
			engine.AddObserver(ObserverFunc(func(s Step) { got = append(got, s) }))

			for i := 0; i < 3; i++ {
				_, err := engine.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(got).To(HaveLen(3))
			Expect(got[2].Index).To(Equal(3))
			Expect(got[2].X).To(Equal(engine.State().X))
			Expect(engine.LastStep()).To(Equal(got[2]))
			Expect(got[0].Distance).To(BeNumerically(">=", cfg.Walk.MinDistance))
			Expect(got[0].Distance).To(BeNumerically("<=", cfg.Walk.MaxDistance))
			Expect(renderer.frames).To(HaveLen(3))
		})

		It("is reproducible for a fixed seed", func() {
			other, err := world.New(*cfg)
			Expect(err).NotTo(HaveOccurred())
			twin := New(*cfg, other, nil, rand.New(rand.NewSource(7)))

			for i := 0; i < 20; i++ {
				p1, _ := engine.Step()
				p2, _ := twin.Step()
				Expect(p1).To(Equal(p2))
			}
			Expect(engine.State()).To(Equal(twin.State()))
		})

		It("propagates render failures", func() {
			boom := errors.New("boom")
			renderer.err = boom
			_, err := engine.Step()
			Expect(err).To(MatchError(boom))
			Expect(engine.State().Steps).To(BeZero())
		})
	})

	It("Reset clears the trail and returns to the origin", func() {
		for i := 0; i < 5; i++ {
			_, err := engine.Step()
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(engine.Reset()).To(Succeed())
		Expect(engine.State()).To(Equal(State{Energy: 1}))
		Expect(engine.LastStep()).To(Equal(Step{}))
		Expect(markerAtCenter(renderer.last())).To(BeTrue())
	})
})
