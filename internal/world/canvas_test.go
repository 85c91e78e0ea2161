package world_test

import (
	"image"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/world"
)

var _ = Describe("Canvas", func() {
	var (
		cfg    *config.Config
		canvas *world.Canvas
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		var err error
		canvas, err = world.New(*cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("adds the margin on every side", func() {
			Expect(canvas.Bounds()).To(Equal(image.Rect(0, 0, 128+512, 64+512)))
			Expect(canvas.Origin()).To(Equal(image.Pt(320, 288)))
		})

		It("accepts a zero margin", func() {
			cfg.World.Margin = 0
			c, err := world.New(*cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Bounds()).To(Equal(image.Rect(0, 0, 128, 64)))
		})

		It("rejects a view larger than the canvas", func() {
			cfg.World.Margin = -10
			_, err := world.New(*cfg)
			Expect(err).To(MatchError(world.ErrViewTooLarge))

			_, err = world.NewSized(100, 50, 128, 64)
			Expect(err).To(MatchError(world.ErrViewTooLarge))
		})
	})

	Describe("WorldToCanvas", func() {
		It("maps the world origin to the canvas origin", func() {
			for _, margin := range []int{0, 1, 7, 64, 256} {
				cfg.World.Margin = margin
				c, err := world.New(*cfg)
				Expect(err).NotTo(HaveOccurred())
				x, y := c.WorldToCanvas(0, 0)
				Expect(image.Pt(x, y)).To(Equal(c.Origin()))
			}
		})

		It("rounds continuous coordinates", func() {
			x, y := canvas.WorldToCanvas(27.4, -3.6)
			Expect(x).To(Equal(347))
			Expect(y).To(Equal(284))
		})

		It("returns coordinates outside the canvas without complaint", func() {
			x, y := canvas.WorldToCanvas(-10000, 10000)
			Expect(x).To(Equal(320 - 10000))
			Expect(y).To(Equal(288 + 10000))
		})
	})

	Describe("StampMarker", func() {
		It("fills a square around the mapped point", func() {
			canvas.StampMarker(0, 0, 1)
			o := canvas.Origin()
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					Expect(canvas.At(o.X+dx, o.Y+dy)).To(BeTrue())
				}
			}
			Expect(canvas.At(o.X+2, o.Y)).To(BeFalse())
		})

		It("clips each edge independently at the corner", func() {
			o := canvas.Origin()
			canvas.StampMarker(float64(-o.X), float64(-o.Y), 2)
			Expect(canvas.At(0, 0)).To(BeTrue())
			Expect(canvas.At(2, 2)).To(BeTrue())
			Expect(canvas.At(3, 3)).To(BeFalse())
		})

		It("ignores markers entirely off the canvas", func() {
			Expect(func() { canvas.StampMarker(-5000, 5000, 1) }).NotTo(Panic())
		})
	})

	Describe("DrawSegment", func() {
		It("draws both endpoints and the pixels between", func() {
			canvas.DrawSegment(0, 0, 10, 0)
			o := canvas.Origin()
			for x := 0; x <= 10; x++ {
				Expect(canvas.At(o.X+x, o.Y)).To(BeTrue())
			}
			Expect(canvas.At(o.X+11, o.Y)).To(BeFalse())
		})

		It("draws diagonals", func() {
			canvas.DrawSegment(0, 0, -5, 5)
			o := canvas.Origin()
			Expect(canvas.At(o.X-5, o.Y+5)).To(BeTrue())
			Expect(canvas.At(o.X-3, o.Y+3)).To(BeTrue())
		})

		It("drops pixels past the canvas edge", func() {
			o := canvas.Origin()
			Expect(func() { canvas.DrawSegment(0, 0, float64(o.X+20), 0) }).NotTo(Panic())
			Expect(canvas.At(canvas.Bounds().Dx()-1, o.Y)).To(BeTrue())
		})
	})

	Describe("ExtractWindow", func() {
		maxLeft := 640 - 128
		maxTop := 576 - 64

		DescribeTable("always returns a full window inside the canvas",
			func(wx, wy float64, left, top int) {
				tl := canvas.WindowOrigin(wx, wy, 128, 64)
				Expect(tl).To(Equal(image.Pt(left, top)))
				Expect(tl.X).To(BeNumerically(">=", 0))
				Expect(tl.X).To(BeNumerically("<=", maxLeft))
				Expect(tl.Y).To(BeNumerically(">=", 0))
				Expect(tl.Y).To(BeNumerically("<=", maxTop))

				win := canvas.ExtractWindow(wx, wy, 128, 64)
				Expect(win.Bounds()).To(Equal(image.Rect(0, 0, 128, 64)))
			},
			Entry("origin", 0.0, 0.0, 256, 256),
			Entry("inside", 27.0, 0.0, 283, 256),
			Entry("left edge", -300.0, 0.0, 0, 256),
			Entry("right edge", 300.0, 0.0, maxLeft, 256),
			Entry("top edge", 0.0, -290.0, 256, 0),
			Entry("bottom edge", 0.0, 290.0, 256, maxTop),
			Entry("far outside", -1e6, 1e6, 0, maxTop),
			Entry("far outside other corner", 1e6, -1e6, maxLeft, 0),
		)

		It("copies canvas content at the clamped offset", func() {
			canvas.StampMarker(27, 0, 0)
			win := canvas.ExtractWindow(27, 0, 128, 64)
			Expect(win.GrayAt(64, 32).Y).To(Equal(uint8(0xFF)))
		})

		It("shows the boundary column instead of garbage when clamped", func() {
			right := canvas.Bounds().Dx() - 1
			o := canvas.Origin()
			canvas.DrawSegment(float64(right-o.X), -20, float64(right-o.X), 20)

			win := canvas.ExtractWindow(10000, 0, 128, 64)
			Expect(win.GrayAt(127, 32).Y).To(Equal(uint8(0xFF)))
			Expect(win.GrayAt(126, 32).Y).To(Equal(uint8(0)))
		})

		It("returns an independent copy", func() {
			win := canvas.View(0, 0)
			canvas.StampMarker(0, 0, 0)
			Expect(win.GrayAt(64, 32).Y).To(Equal(uint8(0)))
		})
	})

	Describe("MarkCenter", func() {
		It("stamps the fixed marker at the frame center", func() {
			frame := image.NewGray(image.Rect(0, 0, 128, 64))
			world.MarkCenter(frame, 1)
			Expect(frame.GrayAt(63, 31).Y).To(Equal(uint8(0xFF)))
			Expect(frame.GrayAt(65, 33).Y).To(Equal(uint8(0xFF)))
			Expect(frame.GrayAt(66, 32).Y).To(Equal(uint8(0)))
		})
	})

	It("Reset blanks the trail but keeps the origin", func() {
		canvas.StampMarker(0, 0, 3)
		canvas.Reset()
		o := canvas.Origin()
		Expect(canvas.At(o.X, o.Y)).To(BeFalse())
		Expect(canvas.Origin()).To(Equal(o))
	})
})
