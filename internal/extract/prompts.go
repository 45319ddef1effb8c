package extract

// systemPrompt is the fixed extraction directive sent as the first turn of
// every conversation.
const systemPrompt = `You are a maritime cargo document parser. Extract ALL values from the photographed field document exactly as the schema requires:
1. Capture every tank row with its tank ID and product.
2. Record dates and times in ISO-8601.
3. Preserve decimal precision exactly as written; never round or convert units.
4. Calculate summary totals per product where the document provides them.`

// userPrompt accompanies the document image in the opening user turn.
const userPrompt = "Extract all data from this document, including vessel name, tanks, and timestamps."

// correctionPrefix introduces the corrective turn appended after a failed
// attempt. The failure text follows verbatim.
const correctionPrefix = "Please fix the error and capture all data: "
