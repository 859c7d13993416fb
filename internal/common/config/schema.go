package config

// settingsSchemaJSON checks the shape of the merged documents before they
// are unmarshalled. Presence rules live in validateConfig.
const settingsSchemaJSON = `{
  "type": "object",
  "definitions": {
    "promptPair": {
      "type": "object",
      "properties": {
        "local": {"type": "string"},
        "cloud": {"type": "string"}
      }
    },
    "endpoint": {
      "type": "object",
      "properties": {
        "base_url": {"type": "string"},
        "model": {"type": "string"}
      }
    }
  },
  "properties": {
    "use_cloud": {"type": "boolean"},
    "api_keys": {
      "type": "object",
      "properties": {
        "google_search_api_key": {"type": "string"},
        "gemini_api_key": {"type": "string"}
      }
    },
    "custom_search_engine_id": {"type": "string"},
    "search_results": {
      "type": "object",
      "properties": {
        "num_results": {"type": "integer", "minimum": 1, "maximum": 10},
        "timeout": {"type": "integer", "minimum": 1},
        "base_url": {"type": "string"}
      }
    },
    "summarization": {
      "type": "object",
      "properties": {
        "text_length_limit": {"type": "integer", "minimum": 1}
      }
    },
    "system_prompts": {
      "type": "object",
      "properties": {
        "query_generation": {"$ref": "#/definitions/promptPair"},
        "summarization": {"$ref": "#/definitions/promptPair"},
        "answer_generation": {"$ref": "#/definitions/promptPair"}
      }
    },
    "models": {
      "type": "object",
      "properties": {
        "local": {"$ref": "#/definitions/endpoint"},
        "cloud": {"$ref": "#/definitions/endpoint"}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "format": {"enum": ["json", "console"]}
      }
    },
    "cache": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "address": {"type": "string"},
        "db": {"type": "integer", "minimum": 0},
        "ttl": {"type": "integer", "minimum": 1}
      }
    },
    "archive": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "postgres": {
          "type": "object",
          "properties": {
            "host": {"type": "string"},
            "port": {"type": "integer", "minimum": 1},
            "database": {"type": "string"},
            "user": {"type": "string"}
          }
        }
      }
    },
    "workers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "enabled": {"type": "boolean"},
          "max_jobs_active": {"type": "integer", "minimum": 1},
          "timeout": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`
