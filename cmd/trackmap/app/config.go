package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/drone-gcs/movingmap/internal/ned"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath         string
	SessionID      int64
	OutputFile     string
	Format         ImageFormat
	Width          int
	Height         int
	PixelsPerMeter float64
	AltitudeMin    float64
	AltitudeMax    float64
	FontPath       string
	NoAnnotations  bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	flag.StringVar(&c.DBPath, "db", "", "Path to the flight log database file")
	flag.Int64Var(&c.SessionID, "s", 1, "Session ID")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.IntVar(&c.Width, "width", 0, "Output image width in pixels")
	flag.IntVar(&c.Height, "height", 0, "Output image height in pixels")
	flag.Float64Var(&c.PixelsPerMeter, "scale", ned.DefaultPixelsPerMeter, "Scene scale in pixels per meter")
	flag.Float64Var(&c.AltitudeMin, "min-alt", 0, "Altitude color range minimum, meters above ground")
	flag.Float64Var(&c.AltitudeMax, "max-alt", 20, "Altitude color range maximum, meters above ground")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font for annotations")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as axis labels and the info bar")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.SessionID <= 0 {
		err = errors.New("session id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.AltitudeMin >= c.AltitudeMax {
		err = fmt.Errorf("invalid altitude range: %0.1f..%0.1f", c.AltitudeMin, c.AltitudeMax)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
