package service

import "errors"

// ErrProblemNotFound indicates no problem matched the query.
var ErrProblemNotFound = errors.New("problem not found")

// ErrProblemExists indicates a problem is already stored for the spreadsheet row.
var ErrProblemExists = errors.New("problem already exists for spreadsheet row")
