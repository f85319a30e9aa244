package domain

// StackTablesVersion identifies the revision of DefaultStackTables.
const StackTablesVersion = "2026.1"

// FrameworkEntry maps a dependency name to a framework identifier.
type FrameworkEntry struct {
	ID          string
	Dependency  string
	DisplayName string
}

// DatabaseEntry maps dependency names to the database kind they imply.
type DatabaseEntry struct {
	Kind         string
	Dependencies []string
}

// LockFileEntry maps a lock-file name to the package manager that writes it.
type LockFileEntry struct {
	File    string
	Manager string
}

// StackTables is the read-only lookup data the detector classifies against.
// Slice order is significant: earlier entries win ties.
type StackTables struct {
	Version string

	PythonFrameworks []FrameworkEntry
	JSFrameworks     []FrameworkEntry

	// Drivers name a database directly; ORMs only imply a default kind
	// and are consulted after every driver.
	Drivers      []DatabaseEntry
	ORMs         []DatabaseEntry
	RedisClients []string

	MigrationDirs []string
	LockFiles     []LockFileEntry

	SrcDirNames     []string
	TestDirNames    []string
	EntryPointNames []string

	TypeScriptConfigs []string
	DockerFiles       []string
	CIPaths           []string

	ConfigFileName string
	ConfigDirName  string

	RuffConfigs   []string
	ESLintConfigs []string
	BiomeConfigs  []string
}

// DefaultStackTables returns a fresh copy of the built-in lookup tables.
func DefaultStackTables() StackTables {
	return StackTables{
		Version: StackTablesVersion,
		PythonFrameworks: []FrameworkEntry{
			{ID: "fastapi", Dependency: "fastapi", DisplayName: "FastAPI"},
			{ID: "django", Dependency: "django", DisplayName: "Django"},
			{ID: "flask", Dependency: "flask", DisplayName: "Flask"},
			{ID: "starlette", Dependency: "starlette", DisplayName: "Starlette"},
			{ID: "tornado", Dependency: "tornado", DisplayName: "Tornado"},
		},
		JSFrameworks: []FrameworkEntry{
			{ID: "next", Dependency: "next", DisplayName: "Next.js"},
			{ID: "react", Dependency: "react", DisplayName: "React"},
			{ID: "vue", Dependency: "vue", DisplayName: "Vue"},
			{ID: "svelte", Dependency: "svelte", DisplayName: "Svelte"},
			{ID: "express", Dependency: "express", DisplayName: "Express"},
			{ID: "nestjs", Dependency: "@nestjs/core", DisplayName: "NestJS"},
			{ID: "nuxt", Dependency: "nuxt", DisplayName: "Nuxt"},
		},
		Drivers: []DatabaseEntry{
			{Kind: "postgresql", Dependencies: []string{"psycopg2", "psycopg2-binary", "psycopg", "asyncpg", "pg", "postgres"}},
			{Kind: "mysql", Dependencies: []string{"mysqlclient", "pymysql", "aiomysql", "mysql", "mysql2"}},
			{Kind: "mongodb", Dependencies: []string{"pymongo", "motor", "mongoengine", "mongodb", "mongoose"}},
			{Kind: "sqlite", Dependencies: []string{"aiosqlite", "better-sqlite3", "sqlite3"}},
		},
		ORMs: []DatabaseEntry{
			{Kind: "postgresql", Dependencies: []string{
				"sqlalchemy", "sqlmodel", "tortoise-orm", "peewee", "django",
				"prisma", "@prisma/client", "sequelize", "typeorm", "drizzle-orm", "knex",
			}},
		},
		RedisClients:  []string{"redis", "aioredis", "ioredis"},
		MigrationDirs: []string{"migrations", "alembic", "prisma"},
		LockFiles: []LockFileEntry{
			{File: "uv.lock", Manager: "uv"},
			{File: "poetry.lock", Manager: "poetry"},
			{File: "Pipfile.lock", Manager: "pipenv"},
			{File: "pnpm-lock.yaml", Manager: "pnpm"},
			{File: "yarn.lock", Manager: "yarn"},
			{File: "bun.lockb", Manager: "bun"},
			{File: "package-lock.json", Manager: "npm"},
		},
		SrcDirNames: []string{
			"src", "app", "lib", "api", "core", "components", "pages",
			"hooks", "backend", "frontend", "server", "client", "apps",
		},
		TestDirNames: []string{"tests", "test", "__tests__"},
		EntryPointNames: []string{
			"main.py", "app.py", "manage.py", "wsgi.py", "asgi.py",
			"index.ts", "index.js", "server.ts", "server.js", "main.ts", "main.js",
		},
		TypeScriptConfigs: []string{"tsconfig.json"},
		DockerFiles:       []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml", "compose.yaml", "compose.yml"},
		CIPaths:           []string{".github/workflows", ".gitlab-ci.yml", ".circleci", "azure-pipelines.yml", "Jenkinsfile"},
		ConfigFileName:    "CLAUDE.md",
		ConfigDirName:     ".claude",
		RuffConfigs:       []string{"ruff.toml", ".ruff.toml"},
		ESLintConfigs:     []string{".eslintrc", ".eslintrc.json", ".eslintrc.js", ".eslintrc.cjs", ".eslintrc.yml", "eslint.config.js", "eslint.config.mjs"},
		BiomeConfigs:      []string{"biome.json", "biome.jsonc"},
	}
}

// FrameworkDisplayName returns the human-readable name for a framework id,
// or the id itself when the tables do not know it.
func (t StackTables) FrameworkDisplayName(id string) string {
	for _, group := range [][]FrameworkEntry{t.PythonFrameworks, t.JSFrameworks} {
		for _, f := range group {
			if f.ID == id {
				return f.DisplayName
			}
		}
	}
	return id
}
