// Package contrast maps decoded sample grids of any numeric range onto 8-bit
// grayscale images.
//
// [Stretch] is the default percentile stretch: samples are clipped to the
// 0.1th..99.9th percentile window and spread over 0..255, with a constant
// grid rendered as mid gray. [LinearMap] is the gentler alternative that
// scales the full declared range of the sample kind. [Mapper] picks between
// them from a mode flag.
//
// [StatsOf] and [HistogramOf] summarise a grid for display alongside the
// image.
package contrast
