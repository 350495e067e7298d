package mapgen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexmap/internal/world"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid generation config")

// Hemisphere selects how latitude maps to temperature.
type Hemisphere uint8

const (
	HemisphereBoth  Hemisphere = iota // Warm equator across the middle row
	HemisphereNorth                   // Warm south edge, cold north edge
	HemisphereSouth                   // Cold south edge, warm north edge
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereBoth:
		return "both"
	case HemisphereNorth:
		return "north"
	case HemisphereSouth:
		return "south"
	default:
		return "unknown"
	}
}

// MarshalText encodes the hemisphere mode by name.
func (h Hemisphere) MarshalText() ([]byte, error) {
	if h > HemisphereSouth {
		return nil, fmt.Errorf("invalid hemisphere %d", h)
	}
	return []byte(h.String()), nil
}

// UnmarshalText parses "both", "north" or "south".
func (h *Hemisphere) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "both":
		*h = HemisphereBoth
	case "north":
		*h = HemisphereNorth
	case "south":
		*h = HemisphereSouth
	default:
		return fmt.Errorf("unknown hemisphere %q", text)
	}
	return nil
}

const maxSettlements = 200

// Config holds map generation parameters.
type Config struct {
	Seed         int64 `yaml:"seed"`           // Used only when UseFixedSeed is set
	UseFixedSeed bool  `yaml:"use_fixed_seed"` // Otherwise a time-derived seed is drawn

	// Land sculpting
	JitterProbability   float64 `yaml:"jitter_probability"`    // Chance a frontier cell gets +1 priority
	ChunkSizeMin        int     `yaml:"chunk_size_min"`        // Smallest raised/sunk chunk
	ChunkSizeMax        int     `yaml:"chunk_size_max"`        // Largest raised/sunk chunk
	LandPercentage      int     `yaml:"land_percentage"`       // Target share of cells above water
	WaterLevel          int     `yaml:"water_level"`           // Initial water surface on every cell
	HighRiseProbability float64 `yaml:"high_rise_probability"` // Chance a chunk moves two steps
	SinkProbability     float64 `yaml:"sink_probability"`      // Chance an iteration sinks instead of raising
	ElevationMinimum    int     `yaml:"elevation_minimum"`
	ElevationMaximum    int     `yaml:"elevation_maximum"`

	// Regions
	MapBorderX   int `yaml:"map_border_x"`  // Water columns kept free at the left/right edges
	MapBorderZ   int `yaml:"map_border_z"`  // Water rows kept free at the top/bottom edges
	RegionBorder int `yaml:"region_border"` // Water gap between regions
	RegionCount  int `yaml:"region_count"`  // 1–4 landmasses

	ErosionPercentage int `yaml:"erosion_percentage"` // Share of erodible cells to wear down

	// Climate
	ClimateCycles       int             `yaml:"climate_cycles"`
	EvaporationFactor   float64         `yaml:"evaporation_factor"`
	PrecipitationFactor float64         `yaml:"precipitation_factor"`
	RunoffFactor        float64         `yaml:"runoff_factor"`
	SeepageFactor       float64         `yaml:"seepage_factor"`
	WindDirection       world.Direction `yaml:"wind_direction"` // Direction the wind blows from
	WindStrength        float64         `yaml:"wind_strength"`  // 1 means no prevailing wind
	StartingMoisture    float64         `yaml:"starting_moisture"`

	// Rivers
	RiverPercentage      int     `yaml:"river_percentage"` // River cells as a share of land cells
	ExtraLakeProbability float64 `yaml:"extra_lake_probability"`

	// Biomes
	LowTemperature    float64    `yaml:"low_temperature"`
	HighTemperature   float64    `yaml:"high_temperature"`
	TemperatureJitter float64    `yaml:"temperature_jitter"`
	Hemisphere        Hemisphere `yaml:"hemisphere"`

	// Settlements placed on the finished map, 0 to skip the stage
	Settlements int `yaml:"settlements"`
}

// DefaultConfig returns the standard generation profile.
func DefaultConfig() Config {
	return Config{
		JitterProbability:   0.25,
		ChunkSizeMin:        30,
		ChunkSizeMax:        100,
		LandPercentage:      50,
		WaterLevel:          3,
		HighRiseProbability: 0.25,
		SinkProbability:     0.2,
		ElevationMinimum:    -2,
		ElevationMaximum:    8,

		MapBorderX:   5,
		MapBorderZ:   5,
		RegionBorder: 5,
		RegionCount:  1,

		ErosionPercentage: 50,

		ClimateCycles:       40,
		EvaporationFactor:   0.5,
		PrecipitationFactor: 0.25,
		RunoffFactor:        0.25,
		SeepageFactor:       0.125,
		WindDirection:       world.NW,
		WindStrength:        4,
		StartingMoisture:    0.1,

		RiverPercentage:      10,
		ExtraLakeProbability: 0.25,

		LowTemperature:    0,
		HighTemperature:   1,
		TemperatureJitter: 0.1,
		Hemisphere:        HemisphereBoth,
	}
}

// SmallTestConfig returns a fixed-seed profile sized for 20×15 maps.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.UseFixedSeed = true
	cfg.ChunkSizeMin = 10
	cfg.ChunkSizeMax = 30
	cfg.MapBorderX = 2
	cfg.MapBorderZ = 2
	cfg.RegionBorder = 2
	return cfg
}

// LoadConfig reads a YAML profile on top of DefaultConfig.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate rejects options outside their supported ranges.
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}
	probability := func(name string, v float64) {
		check(v >= 0 && v <= 1, "%s %.3f outside [0, 1]", name, v)
	}
	percentage := func(name string, v int) {
		check(v >= 0 && v <= 100, "%s %d outside [0, 100]", name, v)
	}

	check(c.RegionCount >= 1 && c.RegionCount <= 4, "region_count %d outside [1, 4]", c.RegionCount)
	check(c.ChunkSizeMin > 0, "chunk_size_min %d must be positive", c.ChunkSizeMin)
	check(c.ChunkSizeMin <= c.ChunkSizeMax, "chunk_size_min %d above chunk_size_max %d", c.ChunkSizeMin, c.ChunkSizeMax)
	check(c.WaterLevel >= 0, "water_level %d must not be negative", c.WaterLevel)
	check(c.ElevationMinimum < c.WaterLevel, "elevation_minimum %d must be below water_level %d", c.ElevationMinimum, c.WaterLevel)
	check(c.WaterLevel < c.ElevationMaximum, "water_level %d must be below elevation_maximum %d", c.WaterLevel, c.ElevationMaximum)
	check(c.MapBorderX >= 0 && c.MapBorderZ >= 0 && c.RegionBorder >= 0, "borders must not be negative")
	check(c.ClimateCycles > 0, "climate_cycles %d must be positive", c.ClimateCycles)
	check(c.WindStrength >= 1, "wind_strength %.2f below 1", c.WindStrength)
	check(c.WindDirection <= world.NW, "wind_direction %d invalid", c.WindDirection)
	check(c.Hemisphere <= HemisphereSouth, "hemisphere %d invalid", c.Hemisphere)
	check(c.Settlements >= 0 && c.Settlements <= maxSettlements, "settlements %d outside [0, %d]", c.Settlements, maxSettlements)

	percentage("land_percentage", c.LandPercentage)
	percentage("erosion_percentage", c.ErosionPercentage)
	percentage("river_percentage", c.RiverPercentage)

	probability("jitter_probability", c.JitterProbability)
	probability("high_rise_probability", c.HighRiseProbability)
	probability("sink_probability", c.SinkProbability)
	probability("evaporation_factor", c.EvaporationFactor)
	probability("precipitation_factor", c.PrecipitationFactor)
	probability("runoff_factor", c.RunoffFactor)
	probability("seepage_factor", c.SeepageFactor)
	probability("starting_moisture", c.StartingMoisture)
	probability("extra_lake_probability", c.ExtraLakeProbability)
	probability("temperature_jitter", c.TemperatureJitter)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// MapSize is a named preset of grid dimensions.
type MapSize struct {
	Name   string
	Width  int
	Height int
}

// MapSizes lists the preset dimensions, all multiples of the chunk size.
var MapSizes = []MapSize{
	{Name: "small", Width: 20, Height: 15},
	{Name: "medium", Width: 40, Height: 30},
	{Name: "large", Width: 80, Height: 60},
}

// LookupMapSize returns the preset with the given name.
func LookupMapSize(name string) (MapSize, bool) {
	for _, s := range MapSizes {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return MapSize{}, false
}
