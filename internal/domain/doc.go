// Package domain models NOAA Global Drifter Program (GDP) six-hourly data.
//
// # Data Source
//
// The GDP Drifter Data Assembly Center (DAC) at AOML publishes one netCDF
// file per drifting buoy (drifter_<id>.nc) under a small set of archive
// subdirectories, plus whitespace-delimited "dirfl" directory files listing
// every deployment. See https://www.aoml.noaa.gov/phod/gdp.
//
// # Directory File Layout
//
// Each dirfl row carries 15 whitespace-separated tokens that collapse to 12
// logical fields once the three date+time column pairs are rejoined:
//
//	ID  WMO  program  type  deploy_date deploy_time  deploy_lat deploy_lon
//	end_date end_time  end_lat end_lon  drogue_off_date drogue_off_time  death_code
//
// Dates use the "2006/01/02 15:04" layout. A date the DAC could not determine
// is recorded as a placeholder that fails to parse; such timestamps become the
// zero time rather than an error.
//
// # Missing-Value Conventions
//
// Observation arrays mark missing data with the out-of-band sentinel -1e34
// (alongside NaN and infinities). Times are "seconds since 1970-01-01" with
// the same sentinel, so a raw sentinel must be decoded before any epoch
// arithmetic. Collection-level integer fields use -1 as their fill value,
// which is distinct from the observation-array sentinel.
//
// Several collection-level attributes are stored as strings with an embedded
// physical unit, e.g. ManufactureVoltage "56 V" or FloatDiameter "35.5 cm".
// [ParseQuantity] strips the known suffix and keeps the unit in the variable
// attribute table instead of the value.
//
// # Drogue Status
//
// A drifter's drogue (sea anchor) detaches at the drogue-off time L. For an
// ascending observation-time sequence T the status flag is true for every
// observation strictly before L and false from L onward; if L is unknown or
// L >= T[last] the drifter is considered drogued for its whole record. See
// [DrogueStatus].
//
// # Death Codes
//
//	0 buoy still alive, 1 ran aground, 2 picked up by vessel,
//	3 stopped transmitting, 4 sporadic transmissions, 5 bad batteries,
//	6 inactive status
package domain
