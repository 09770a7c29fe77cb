package postgres

// Migrations returns all embedded migrations in version order.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_projects", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_news", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_event_outbox", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROJECTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS projects (
    id UUID PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description VARCHAR(2000) NOT NULL,
    category VARCHAR(30) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'planning',
    github_url VARCHAR(500) NOT NULL DEFAULT '',
    website_url VARCHAR(500) NOT NULL DEFAULT '',
    tags TEXT[] NOT NULL DEFAULT '{}',
    stars INTEGER NOT NULL DEFAULT 0,
    forks INTEGER NOT NULL DEFAULT 0,
    featured BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL,

    CONSTRAINT valid_project_category CHECK (category IN
        ('government', 'education', 'environment', 'healthcare', 'transportation', 'civic-tech')),
    CONSTRAINT valid_project_status CHECK (status IN ('active', 'completed', 'planning', 'archived')),
    CONSTRAINT valid_project_metrics CHECK (stars >= 0 AND forks >= 0)
);

CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_projects_tags ON projects USING GIN(tags);
`

const migration001Down = `
DROP TABLE IF EXISTS projects;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE NEWS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS news_articles (
    id UUID PRIMARY KEY,
    slug VARCHAR(100) NOT NULL UNIQUE,
    title VARCHAR(200) NOT NULL,
    excerpt VARCHAR(500) NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    category VARCHAR(30) NOT NULL,
    author_id UUID NOT NULL,
    tags TEXT[] NOT NULL DEFAULT '{}',
    featured BOOLEAN NOT NULL DEFAULT FALSE,
    published_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_news_category ON news_articles(category);
CREATE INDEX IF NOT EXISTS idx_news_published_at ON news_articles(published_at DESC) WHERE published_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_news_tags ON news_articles USING GIN(tags);
`

const migration002Down = `
DROP TABLE IF EXISTS news_articles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE EVENT OUTBOX
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS domain_event_outbox (
    event_id UUID PRIMARY KEY,
    event_type VARCHAR(60) NOT NULL,
    aggregate_id VARCHAR(64) NOT NULL,
    aggregate_type VARCHAR(30) NOT NULL,
    event_version INTEGER NOT NULL DEFAULT 1,
    occurred_on TIMESTAMP WITH TIME ZONE NOT NULL,
    event_data JSONB NOT NULL DEFAULT '{}'::jsonb,
    relayed_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_outbox_pending ON domain_event_outbox(occurred_on) WHERE relayed_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON domain_event_outbox(aggregate_type, aggregate_id);
`

const migration003Down = `
DROP TABLE IF EXISTS domain_event_outbox;
`
