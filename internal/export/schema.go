package export

import "github.com/santhosh-tekuri/jsonschema/v5"

// placeSchema validates the shape of every place record line on import.
const placeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "name", "description", "exits", "ecology", "weather", "coordinates"],
  "properties": {
    "id": {"type": "string", "pattern": "^flux:place:"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "exits": {
      "type": "object",
      "propertyNames": {
        "enum": ["north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"]
      },
      "additionalProperties": {
        "type": "object",
        "required": ["direction", "label", "to"],
        "properties": {
          "direction": {"type": "string"},
          "label": {"type": "string"},
          "to": {"type": "string", "pattern": "^flux:place:"}
        }
      }
    },
    "entities": {"type": "array"},
    "ecology": {"enum": ["steppe", "grassland", "mountain", "jungle", "marsh"]},
    "weather": {
      "type": "object",
      "required": ["temp_c", "pressure_hpa", "humidity"]
    },
    "coordinates": {
      "type": "object",
      "required": ["col", "row", "x", "y"],
      "properties": {
        "col": {"type": "integer", "minimum": 0},
        "row": {"type": "integer", "minimum": 0},
        "x": {"type": "number"},
        "y": {"type": "number"}
      }
    }
  }
}`

var compiledPlaceSchema = jsonschema.MustCompileString("place.schema.json", placeSchema)
