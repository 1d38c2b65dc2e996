package flightlog

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      vehicle_id,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    vehicle_id,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    vehicle_id,
    config
FROM sessions
ORDER BY start_time`

	insertPositionSQL = `
INSERT INTO positions (session_id,
                       timestamp,
                       n,
                       e,
                       d)
VALUES (?, ?, ?, ?, ?)`

	insertAttitudeSQL = `
INSERT INTO attitudes (session_id,
                       timestamp,
                       roll,
                       pitch,
                       yaw)
VALUES (?, ?, ?, ?, ?)`

	insertEventSQL = `
INSERT INTO events (session_id,
                    timestamp,
                    airborne)
VALUES (?, ?, ?)`

	insertCommandSQL = `
INSERT INTO commands (session_id,
                      timestamp,
                      topic,
                      payload)
VALUES (?, ?, ?, ?)`

	selectPositionsSQL = `
SELECT
    timestamp,
    n,
    e,
    d
FROM positions
WHERE
    session_id = ?
ORDER BY timestamp, id`

	selectCommandsSQL = `
SELECT
    timestamp,
    topic,
    payload
FROM commands
WHERE
    session_id = ?
ORDER BY timestamp, id`
)

//go:embed schema.sql
var schemaSQL string
