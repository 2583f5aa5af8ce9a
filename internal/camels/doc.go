// Package camels loads the CAMELS US benchmark dataset (catchment attributes,
// basin-mean meteorological forcings and USGS streamflow) into date-indexed,
// in-memory tables.
//
// # Data Source
//
// CAMELS (Catchment Attributes and MEteorology for Large-sample Studies) covers
// 671 catchments in the contiguous United States. See Addor et al. (2017),
// doi:10.5194/hess-21-5293-2017, and Newman et al. (2015),
// doi:10.5194/hess-19-209-2015. The loaders expect the layout of the original
// download, unmodified:
//
//	<root>/camels_attributes_v2.0/camels_*.txt
//	<root>/basin_mean_forcing/<forcing>/<huc>/<basin>_lump_<forcing>_forcing_leap.txt
//	<root>/usgs_streamflow/<huc>/<basin>_streamflow_qc.txt
//
// Forcing and streamflow files are located by name, at any depth below their
// product directory, never by content.
//
// # Dataset Conventions
//
// Basin identifiers:
//
//	8-digit USGS station codes, e.g. "01013500". Always kept as text so that
//	leading zeros survive.
//
// Attribute files:
//
//	Semicolon-delimited with a header row. The first column is gauge_id. One
//	file per attribute group (clim, geol, hydro, name, soil, topo, vege). The
//	numeric "huc_02" column is replaced by the text column "huc", zero-padded
//	to two characters: 1 -> "01".
//
// Forcing files:
//
//	Three metadata lines followed by a whitespace-delimited table:
//
//	  42.16681        <- gauge latitude (ignored)
//	  250             <- gauge elevation, m (ignored)
//	  2252270960      <- catchment area, m²
//	  Year Mnth Day Hr dayl(s) prcp(mm/day) srad(W/m2) swe(mm) tmax(C) tmin(C) vp(Pa)
//	  1980 01 01 12 30172.51 0.00 153.40 0.00 -6.54 -16.30 171.69
//
// Streamflow files:
//
//	Headerless, whitespace-delimited: basin, year, month, day, discharge (cfs),
//	quality flag ("A", "A:e", "M"). Missing observations are recorded as -999.
//
// # Units
//
// Discharge is converted from cubic feet per second to millimetres per day
// over the catchment area taken from the forcing file header:
//
//	q_mm_day = 28316846.592 * q_cfs * 86400 / (area_m2 * 1e6)
//
// Negative results, which includes the -999 sentinel, become NaN. The series
// keeps its full length so that it stays aligned with the forcing index.
package camels
