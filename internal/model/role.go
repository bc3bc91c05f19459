package model

// RoleLabel is the commercial role an SKU plays inside its category.
type RoleLabel string

// Role label constants.
const (
	RoleTrafficDriver  RoleLabel = "traffic_driver"
	RoleProfitItem     RoleLabel = "profit_item"
	RoleImageItem      RoleLabel = "image_item"
	RoleUnderperformer RoleLabel = "underperformer"
	RoleUnclassified   RoleLabel = "unclassified"
)

// RegionLabel is the geographic classification of a store location.
type RegionLabel string

// Region label constants.
const (
	RegionUrban   RegionLabel = "urban"
	RegionCounty  RegionLabel = "county"
	RegionUnknown RegionLabel = "unknown"
)
