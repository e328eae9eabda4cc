package models

import "fmt"

var NoQualifyingExpirationErr = fmt.Errorf("no expiration meets the days to expiration threshold")
var EmptyChainErr = fmt.Errorf("option chain has no strikes")
var TransportErr = fmt.Errorf("brokerage request failed")
var AuthErr = fmt.Errorf("brokerage authentication failed")
var NotFoundErr = fmt.Errorf("no option chain found")
var InvalidMinDaysToExpirationErr = fmt.Errorf("minimum days to expiration must be non negative")
var InvalidOptionTypeErr = fmt.Errorf("invalid option type")
