package db

import "time"

const defaultTestTimeout = 5 * time.Second
