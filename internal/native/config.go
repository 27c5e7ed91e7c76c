package native

// Preset mirrors WebPPreset: a set of encoding parameters tuned for a
// content type, applied by the native config initializer.
type Preset int32

const (
	PresetDefault Preset = iota
	PresetPicture
	PresetPhoto
	PresetDrawing
	PresetIcon
	PresetText
)

// ClampQuality clamps a quality factor to the native [0,100] range.
func ClampQuality(q float32) float32 {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// ClampSpeed clamps a method/speed value to the native [0,6] range. Values
// outside the range are clamped here, never passed through to the library.
func ClampSpeed(speed int) int {
	if speed < 0 {
		return 0
	}
	if speed > 6 {
		return 6
	}
	return speed
}

// ClampLevel clamps a near-lossless level to [0,100].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// losslessQualityProxy derives the lossless preset level fed to
// WebPConfigLosslessPreset from a speed value: (speed+1)*10 maps speed 0..6
// onto effort 10..70 before the native side rescales it.
func losslessQualityProxy(speed int) float32 {
	return float32((ClampSpeed(speed) + 1) * 10)
}

// NewConfig initializes a Config with the native defaults for the given
// preset and quality, stamped with the encoder ABI version. A zero return
// from the native initializer means the preset/version combination was
// rejected.
func NewConfig(preset Preset, quality float32) (*Config, error) {
	if err := Available(); err != nil {
		return nil, err
	}
	cfg := new(Config)
	if webpConfigInitInternal(cfg, int32(preset), ClampQuality(quality), encoderABIVersion) == 0 {
		return nil, ErrVersionMismatch
	}
	return cfg, nil
}

// TuneLossy applies the advanced lossy tuning: speed-derived pass count,
// autofilter, four segments and eight token partitions.
func (c *Config) TuneLossy(speed int) {
	speed = ClampSpeed(speed)
	c.Method = int32(speed)
	c.Pass = int32(speed + 1)
	c.Autofilter = 1
	c.Segments = 4
	c.Partitions = 3
	c.Lossless = 0
}

// TuneLossless re-initializes the config through the native lossless preset
// using the speed-derived quality proxy, then sets the pass count.
func (c *Config) TuneLossless(speed int) error {
	if err := Available(); err != nil {
		return err
	}
	speed = ClampSpeed(speed)
	if webpConfigLosslessPreset(c, int32(speed)) == 0 {
		return ErrInvalidConfig
	}
	c.Quality = losslessQualityProxy(speed)
	c.Pass = int32(speed + 1)
	return nil
}

// TuneNearLossless applies lossless tuning plus a bounded-deviation
// near-lossless level.
func (c *Config) TuneNearLossless(level, speed int) error {
	if err := c.TuneLossless(speed); err != nil {
		return err
	}
	c.NearLossless = int32(ClampLevel(level))
	return nil
}

// Validate asks the native library whether the configuration is usable.
// It never fails the process: out-of-range or contradictory fields simply
// report false and the caller decides whether that is fatal. Validate is
// pure with respect to the config, so repeated calls agree.
func (c *Config) Validate() bool {
	if Available() != nil {
		return false
	}
	return webpValidateConfig(c) != 0
}
