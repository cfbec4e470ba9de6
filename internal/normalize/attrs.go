package normalize

import (
	"fmt"
	"time"

	"github.com/driftlab/gdp-ingest/internal/domain"
)

const epochUnits = "seconds since 1970-01-01 00:00:00"

// variableAttrs is the fixed DAC variable metadata table. Downstream
// consumers depend on these strings as published (including the upstream
// end_lat/end_lon label swap and the "degree_Celcius" spelling), so they are
// reproduced verbatim rather than corrected.
func variableAttrs() map[string]domain.VarAttrs {
	return map[string]domain.VarAttrs{
		"ID":        {LongName: "Global Drifter Program Buoy ID", Units: "-"},
		"longitude": {LongName: "Longitude", Units: "degrees_east"},
		"lon360":    {LongName: "Longitude", Units: "degrees_east"},
		"latitude":  {LongName: "Latitude", Units: "degrees_north"},
		"time":      {LongName: "Time", Units: epochUnits},
		"ids": {
			LongName: "Global Drifter Program Buoy ID repeated along observations",
			Units:    "-",
		},
		"rowsize": {
			LongName:        "Number of observations per trajectory",
			SampleDimension: "obs",
			Units:           "-",
		},
		"WMO": {
			LongName: "World Meteorological Organization buoy identification number",
			Units:    "-",
		},
		"expno":            {LongName: "Experiment number", Units: "-"},
		"deploy_date":      {LongName: "Deployment date and time", Units: epochUnits},
		"deploy_lon":       {LongName: "Deployment longitude", Units: "degrees_east"},
		"deploy_lat":       {LongName: "Deployment latitude", Units: "degrees_north"},
		"end_date":         {LongName: "End date and time", Units: epochUnits},
		"end_lon":          {LongName: "End latitude", Units: "degrees_north"},
		"end_lat":          {LongName: "End longitude", Units: "degrees_east"},
		"drogue_lost_date": {LongName: "Date and time of drogue loss", Units: epochUnits},
		"typedeath": {
			LongName: "Type of death",
			Units:    "-",
			Comments: "0 (buoy still alive), 1 (buoy ran aground), 2 (picked up by vessel), 3 (stop transmitting), 4 (sporadic transmissions), 5 (bad batteries), 6 (inactive status)",
		},
		"typebuoy": {
			LongName: "Buoy type (see https://www.aoml.noaa.gov/phod/dac/dirall.html)",
			Units:    "-",
		},
		"DeployingShip":        {LongName: "Name of deployment ship", Units: "-"},
		"DeploymentStatus":     {LongName: "Deployment status", Units: "-"},
		"BuoyTypeManufacturer": {LongName: "Buoy type manufacturer", Units: "-"},
		"BuoyTypeSensorArray":  {LongName: "Buoy type sensor array", Units: "-"},
		"CurrentProgram":       {LongName: "Current Program", Units: "-", FillValue: "-1"},
		"PurchaserFunding":     {LongName: "Purchaser funding", Units: "-"},
		"SensorUpgrade":        {LongName: "Sensor upgrade", Units: "-"},
		"Transmissions":        {LongName: "Transmissions", Units: "-"},
		"DeployingCountry":     {LongName: "Deploying country", Units: "-"},
		"DeploymentComments":   {LongName: "Deployment comments", Units: "-"},
		"ManufactureYear":      {LongName: "Manufacture year", Units: "-", FillValue: "-1"},
		"ManufactureMonth":     {LongName: "Manufacture month", Units: "-", FillValue: "-1"},
		"ManufactureSensorType": {
			LongName: "Manufacture Sensor Type",
			Units:    "-",
		},
		"ManufactureVoltage":  {LongName: "Manufacture voltage", Units: "V", FillValue: "-1"},
		"FloatDiameter":       {LongName: "Diameter of surface floater", Units: "cm"},
		"SubsfcFloatPresence": {LongName: "Subsurface Float Presence", Units: "-"},
		"DrogueType":          {LongName: "Drogue Type", Units: "-"},
		"DrogueLength":        {LongName: "Length of drogue.", Units: "m"},
		"DrogueBallast":       {LongName: "Weight of the drogue's ballast.", Units: "kg"},
		"DragAreaAboveDrogue": {LongName: "Drag area above drogue.", Units: "m^2"},
		"DragAreaOfDrogue":    {LongName: "Drag area drogue.", Units: "m^2"},
		"DragAreaRatio":       {LongName: "Drag area ratio", Units: "m"},
		"DrogueCenterDepth":   {LongName: "Average depth of the drogue.", Units: "m"},
		"DrogueDetectSensor":  {LongName: "Drogue detection sensor", Units: "-"},
		"ve":                  {LongName: "Eastward velocity", Units: "m/s"},
		"vn":                  {LongName: "Northward velocity", Units: "m/s"},
		"err_lat":             {LongName: "Standard error in latitude", Units: "degrees_north"},
		"err_lon":             {LongName: "Standard error in longitude", Units: "degrees_east"},
		"temp":                {LongName: "Sea Surface Bulk Temperature", Units: "degree_Celcius"},
		"err_temp":            {LongName: "Standard error in temperature", Units: "degree_Celcius"},
		"drogue_status": {
			LongName:     "Status indicating the presence of the drogue",
			Units:        "-",
			FlagValues:   "1,0",
			FlagMeanings: "drogued, undrogued",
		},
	}
}

// globalAttrs is the fixed collection-level provenance table. version names
// the dataset release (e.g. "July 2022"); created is captured at
// normalization time.
func globalAttrs(version string, created time.Time) map[string]string {
	return map[string]string{
		"title":            "Global Drifter Program six-hourly drifting buoy collection",
		"history":          fmt.Sprintf("Last update %s. Metadata from dirall.dat and deplog.dat", version),
		"Conventions":      "CF-1.6",
		"date_created":     created.Format(time.RFC3339Nano),
		"publisher_name":   "GDP Drifter DAC",
		"publisher_email":  "aoml.dftr@noaa.gov",
		"publisher_url":    "https://www.aoml.noaa.gov/phod/gdp",
		"licence":          "freely available",
		"processing_level": "Level 2 QC by GDP drifter DAC",
		"metadata_link":    "https://www.aoml.noaa.gov/phod/dac/dirall.html",
		"contributor_name": "NOAA Global Drifter Program",
		"contributor_role": "Data Acquisition Center",
		"institution":      "NOAA Atlantic Oceanographic and Meteorological Laboratory",
		"acknowledgement":  "Lumpkin, Rick; Centurioni, Luca (2019). NOAA Global Drifter Program quality-controlled 6-hour interpolated data from ocean surface drifting buoys. [indicate subset used]. NOAA National Centers for Environmental Information. Dataset. https://doi.org/10.25921/7ntx-z961. Accessed [date].",
		"summary":          "Global Drifter Program six-hourly data",
		"doi":              "10.25921/7ntx-z961",
	}
}
