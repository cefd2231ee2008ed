package store

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// JSON documents are kept in plain text columns on every dialect.
var jsonText = map[string]string{
	dialect.SQLite:   "text",
	dialect.Postgres: "text",
}

var (
	// ProblemsColumns holds the columns for the "problems" table.
	ProblemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "kind", Type: field.TypeString},
		{Name: "expected", Type: field.TypeJSON, SchemaType: jsonText},
		{Name: "tolerance", Type: field.TypeFloat64, Default: 0},
		{Name: "hints", Type: field.TypeJSON, SchemaType: jsonText},
		{Name: "solution", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	// problemsTable holds the schema information for the "problems" table.
	problemsTable = &schema.Table{
		Name:       "problems",
		Columns:    ProblemsColumns,
		PrimaryKey: []*schema.Column{ProblemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "problem_topic", Unique: false, Columns: []*schema.Column{ProblemsColumns[3]}},
		},
	}

	// SessionsColumns holds the columns for the "sessions" table.
	SessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "problem_id", Type: field.TypeString},
		{Name: "state", Type: field.TypeJSON, SchemaType: jsonText},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	sessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_problem_id", Unique: false, Columns: []*schema.Column{SessionsColumns[1]}},
		},
	}

	// AttemptEventsColumns holds the columns for the "attempt_events" table.
	AttemptEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "problem_id", Type: field.TypeString},
		{Name: "answer", Type: field.TypeJSON, SchemaType: jsonText, Nullable: true},
		{Name: "correct", Type: field.TypeBool},
		{Name: "partial_credit", Type: field.TypeFloat64, Nullable: true},
		{Name: "feedback", Type: field.TypeString},
		{Name: "attempt", Type: field.TypeInt},
		{Name: "elapsed_ms", Type: field.TypeInt64},
	}
	attemptEventsTable = &schema.Table{
		Name:       "attempt_events",
		Columns:    AttemptEventsColumns,
		PrimaryKey: []*schema.Column{AttemptEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attemptevent_problem_id", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[4]}},
			{Name: "attemptevent_session_id", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[3]}},
		},
	}

	// HintEventsColumns holds the columns for the "hint_events" table.
	HintEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "problem_id", Type: field.TypeString},
		{Name: "hint_id", Type: field.TypeString},
	}
	hintEventsTable = &schema.Table{
		Name:       "hint_events",
		Columns:    HintEventsColumns,
		PrimaryKey: []*schema.Column{HintEventsColumns[0]},
	}

	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "problem_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
	}
	sessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    SessionEventsColumns,
		PrimaryKey: []*schema.Column{SessionEventsColumns[0]},
	}

	// TutorEventsColumns holds the columns for the "tutor_events" table.
	TutorEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "problem_id", Type: field.TypeString, Default: ""},
		{Name: "question", Type: field.TypeString},
		{Name: "matched_rule", Type: field.TypeString, Default: ""},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	tutorEventsTable = &schema.Table{
		Name:       "tutor_events",
		Columns:    TutorEventsColumns,
		PrimaryKey: []*schema.Column{TutorEventsColumns[0]},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	eventTables = []*schema.Table{
		attemptEventsTable,
		hintEventsTable,
		sessionEventsTable,
		tutorEventsTable,
	}

	tables = []*schema.Table{
		problemsTable,
		sessionsTable,
		attemptEventsTable,
		hintEventsTable,
		sessionEventsTable,
		tutorEventsTable,
		globalSequenceTable,
	}
)
